package workbook

// Layout maps RawRow fields to zero-based sheet columns. A negative index
// marks a column the workbook variant does not carry.
type Layout struct {
	HeaderRows int

	TableName         int
	StateCode         int
	DistrictCode      int
	TownCode          int
	AreaName          int
	MotherTongueCode  int
	MotherTongueLabel int
	Total             int
	Males             int
	Females           int
	Rural             int
	Urban             int
}

// DistrictLayout is the C-16 district/state workbook: total, rural and urban
// persons each split into persons/males/females.
func DistrictLayout(headerRows int) Layout {
	return Layout{
		HeaderRows:        headerRows,
		TableName:         0,
		StateCode:         1,
		DistrictCode:      2,
		TownCode:          3,
		AreaName:          4,
		MotherTongueCode:  5,
		MotherTongueLabel: 6,
		Total:             7,
		Males:             8,
		Females:           9,
		Rural:             10,
		Urban:             13,
	}
}

// TownLayout is the town workbook: total persons with the male/female split,
// no rural/urban columns.
func TownLayout(headerRows int) Layout {
	return Layout{
		HeaderRows:        headerRows,
		TableName:         0,
		StateCode:         1,
		DistrictCode:      2,
		TownCode:          3,
		AreaName:          4,
		MotherTongueCode:  5,
		MotherTongueLabel: 6,
		Total:             7,
		Males:             8,
		Females:           9,
		Rural:             -1,
		Urban:             -1,
	}
}

// width is the number of columns a data row needs to carry every mapped field.
func (l Layout) width() int {
	w := 0
	for _, i := range []int{
		l.TableName, l.StateCode, l.DistrictCode, l.TownCode, l.AreaName, l.MotherTongueCode,
		l.MotherTongueLabel, l.Total, l.Males, l.Females, l.Rural, l.Urban,
	} {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}

type BilingualLayout struct {
	HeaderRows int

	PrimaryLanguage          int
	PrimaryPersons           int
	FirstSubsidiaryLanguage  int
	FirstSubsidiaryPersons   int
	SecondSubsidiaryLanguage int
	SecondSubsidiaryPersons  int
}

func DefaultBilingualLayout(headerRows int) BilingualLayout {
	return BilingualLayout{
		HeaderRows:               headerRows,
		PrimaryLanguage:          0,
		PrimaryPersons:           1,
		FirstSubsidiaryLanguage:  2,
		FirstSubsidiaryPersons:   3,
		SecondSubsidiaryLanguage: 4,
		SecondSubsidiaryPersons:  5,
	}
}

func (l BilingualLayout) width() int {
	w := 0
	for _, i := range []int{
		l.PrimaryLanguage, l.PrimaryPersons, l.FirstSubsidiaryLanguage,
		l.FirstSubsidiaryPersons, l.SecondSubsidiaryLanguage, l.SecondSubsidiaryPersons,
	} {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}
