package domain

type DownloadedWorkbook struct {
	State string `json:"state"`
	File  string `json:"file"`
	URL   string `json:"url"`
	Bytes int64  `json:"bytes"`
}

type BackfillResult struct {
	Dataset   string               `json:"dataset"`
	Directory string               `json:"directory"`
	Workbooks []DownloadedWorkbook `json:"workbooks"`
}
