/*
 * Reports - general report download.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package inventory

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"sihealth-console/internal/api"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

// DateLayout is the layout of the report period dates.
const DateLayout = "2006-01-02"

// ReportPeriod is the inclusive date range of a report.
type ReportPeriod struct {
	Start time.Time
	End   time.Time
}

// ParseReportPeriod parses the start and end dates, formatted as
// "YYYY-MM-DD". The end cannot precede the start.
func ParseReportPeriod(start, end string) (ReportPeriod, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return ReportPeriod{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return ReportPeriod{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return ReportPeriod{}, fmt.Errorf("end date %s precedes start date %s", end, start)
	}
	return ReportPeriod{Start: s, End: e}, nil
}

// Query returns the query parameters of the report request.
func (p ReportPeriod) Query() url.Values {
	return url.Values{
		"inicio": {p.Start.Format(DateLayout)},
		"fim":    {p.End.Format(DateLayout)},
	}
}

// FallbackFilename is the file name used when the backend does not send
// one.
func (p ReportPeriod) FallbackFilename() string {
	return fmt.Sprintf("relatorio_geral_%s_%s.pdf", p.Start.Format(DateLayout), p.End.Format(DateLayout))
}

// OpenGeneralReport starts the download of the general report. The caller
// must close the body of the returned download.
func (s *Service) OpenGeneralReport(ctx context.Context, period ReportPeriod) (*api.Download, error) {
	d, err := s.api.Download(ctx, generalReportEndpoint, period.Query(), period.FallbackFilename())
	if err != nil {
		return nil, fmt.Errorf("cannot download the general report: %w", err)
	}
	return d, nil
}

// DownloadGeneralReport saves the general report into the report directory
// and returns the path of the file.
func (s *Service) DownloadGeneralReport(ctx context.Context, period ReportPeriod) (string, error) {
	d, err := s.OpenGeneralReport(ctx, period)
	if err != nil {
		return "", err
	}
	defer d.Body.Close()

	if err := os.MkdirAll(s.config.ReportDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create report directory: %w", err)
	}
	dest := filepath.Join(s.config.ReportDir, d.Filename)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}

	bar := progressbar.NewOptions64(
		d.ContentLength,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", d.Filename)),
		progressbar.OptionShowBytes(true),
	)

	_, err = io.Copy(io.MultiWriter(out, bar), d.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			log.Warnf("Could not remove partial report %s: %v", dest, rmErr)
		}
		return "", fmt.Errorf("error writing file: %w", err)
	}
	_ = bar.Finish()
	// print a newline after the progress bar
	fmt.Fprintln(s.progress)

	log.Infof("Report saved to %s", dest)
	return dest, nil
}
