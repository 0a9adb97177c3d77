package backfill

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
	"github.com/ougirez/mothertongue/internal/pkg/workbook"
)

const (
	DatasetStates    = "states"
	DatasetTowns     = "towns"
	DatasetBilingual = "bilingual"
)

type Options struct {
	Client        *http.Client
	Retries       uint64
	RetryInterval time.Duration
	Workers       int
}

// Service fills dataset directories with the workbooks linked from an HTML
// index page.
type Service struct {
	dirs map[string]string
	opts Options
}

func NewBackfillService(dirs map[string]string, opts Options) *Service {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 2 * time.Minute}
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Service{dirs: dirs, opts: opts}
}

func (s *Service) Backfill(ctx context.Context, dataset, indexURL string) (*domain.BackfillResult, error) {
	dir, ok := s.dirs[dataset]
	if !ok || dir == "" {
		return nil, fmt.Errorf("%w: unknown dataset %q", constants.ErrBadRequest, dataset)
	}

	base, err := url.Parse(indexURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: bad index url %q", constants.ErrBadRequest, indexURL)
	}

	links, err := s.workbookLinks(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("workbookLinks: %w", err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: no workbook links on %s", constants.ErrSourceNotFound, indexURL)
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	workbooks := make([]domain.DownloadedWorkbook, len(links))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Workers)
	for i, link := range links {
		eg.Go(func() error {
			wb, err := s.download(egCtx, dir, link)
			if err != nil {
				logger.Errorf(egCtx, "download %s: %s", link, err.Error())
				return fmt.Errorf("download %s: %w", link, err)
			}

			logger.Infof(egCtx, "downloaded %s (%d bytes)", wb.File, wb.Bytes)
			workbooks[i] = *wb
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	sort.Slice(workbooks, func(i, j int) bool { return workbooks[i].File < workbooks[j].File })
	return &domain.BackfillResult{Dataset: dataset, Directory: dir, Workbooks: workbooks}, nil
}

// workbookLinks returns the absolute, deduplicated workbook links of the
// index page in document order.
func (s *Service) workbookLinks(ctx context.Context, base *url.URL) ([]*url.URL, error) {
	resp, err := s.get(ctx, base.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	seen := make(map[string]bool)
	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, parseErr := url.Parse(strings.TrimSpace(href))
		if parseErr != nil {
			logger.Debugf(ctx, "skipping link %q: %v", href, parseErr)
			return
		}

		u := base.ResolveReference(ref)
		u.Fragment = ""
		if !workbook.IsWorkbookFile(u.Path) || seen[u.String()] {
			return
		}
		seen[u.String()] = true
		links = append(links, u)
	})

	return links, nil
}

func (s *Service) download(ctx context.Context, dir string, link *url.URL) (*domain.DownloadedWorkbook, error) {
	name, err := url.PathUnescape(path.Base(link.Path))
	if err != nil {
		name = path.Base(link.Path)
	}
	state := workbook.StateName(name)
	file := workbook.FileStem(state) + strings.ToLower(filepath.Ext(name))

	resp, err := s.get(ctx, link.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("io.Copy: %w", err)
	}

	if err = os.Rename(tmp.Name(), filepath.Join(dir, file)); err != nil {
		return nil, fmt.Errorf("os.Rename: %w", err)
	}

	return &domain.DownloadedWorkbook{State: state, File: file, URL: link.String(), Bytes: n}, nil
}

// get retries transport errors and non-200 answers.
func (s *Service) get(ctx context.Context, rawURL string) (*http.Response, error) {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
			}

			r, err := s.opts.Client.Do(req)
			if err != nil {
				return fmt.Errorf("client.Do: %w", err)
			}
			if r.StatusCode != http.StatusOK {
				r.Body.Close()
				if r.StatusCode == http.StatusNotFound {
					return backoff.Permanent(fmt.Errorf("%w: %s", constants.ErrSourceNotFound, rawURL))
				}
				return fmt.Errorf("status code error: %d %s", r.StatusCode, r.Status)
			}

			resp = r
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(s.opts.RetryInterval), s.opts.Retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
