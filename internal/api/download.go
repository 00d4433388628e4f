/*
 * Download - file downloads from the SiHealth API.
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
package api

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"regexp"
)

// quotedFilename matches filename="..." in headers mime cannot parse.
var quotedFilename = regexp.MustCompile(`filename="?([^";]+)"?`)

// Download is an open file download. The caller must close Body.
type Download struct {
	Body          io.ReadCloser
	Filename      string
	ContentType   string
	ContentLength int64
}

// Download performs a GET request and returns the open response body along
// with the file name announced by the server. If the server does not name
// the file, fallbackName is used.
func (c *Client) Download(ctx context.Context, endpoint string, query url.Values, fallbackName string) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, query), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	name := FilenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fallbackName
	}
	return &Download{
		Body:          resp.Body,
		Filename:      name,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// FilenameFromDisposition extracts the file name from a Content-Disposition
// header. Both quoted and bare values are accepted; any directory part is
// stripped. It returns "" if no file name is present.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	} else if m := quotedFilename.FindStringSubmatch(header); m != nil {
		name = m[1]
	}
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
