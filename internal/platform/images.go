package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// ImgurHost uploads challenge images to imgur using an anonymous client ID.
type ImgurHost struct {
	http     *http.Client
	clientID string
}

func NewImgurHost(clientID string) *ImgurHost {
	return &ImgurHost{
		http:     &http.Client{Timeout: 60 * time.Second},
		clientID: clientID,
	}
}

func (h *ImgurHost) Upload(ctx context.Context, path, title string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.WriteField("title", title); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.imgur.com/3/image", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Client-ID "+h.clientID)

	resp, err := h.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", &StatusError{Code: resp.StatusCode, URL: "/3/image"}
	}
	var out struct {
		Data struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.Link == "" {
		return "", fmt.Errorf("imgur returned no link for %s", path)
	}
	return out.Data.Link, nil
}

// StreetViewFetcher downloads a street-view image for a location query into
// a temporary file and returns its path.
type StreetViewFetcher struct {
	http *http.Client
	dir  string
}

func NewStreetViewFetcher(dir string) *StreetViewFetcher {
	return &StreetViewFetcher{
		http: &http.Client{Timeout: 60 * time.Second},
		dir:  dir,
	}
}

func (f *StreetViewFetcher) Fetch(ctx context.Context, query string) (string, error) {
	target := "https://maps.googleapis.com/maps/api/streetview?size=640x640&location=" +
		url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", &StatusError{Code: resp.StatusCode, URL: "/maps/api/streetview"}
	}

	dir := f.dir
	if dir == "" {
		dir = os.TempDir()
	}
	file, err := os.CreateTemp(dir, "challenge-*.jpg")
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}
