package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// GetFileStructure fetches the manuals tree summary.
func (c *Client) GetFileStructure(ctx context.Context) (*DirectoryStructure, error) {
	var out DirectoryStructure
	if err := c.doJSON(ctx, "GET", "/api/v1/files/structure", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetYearMakes lists the available year/make directories.
func (c *Client) GetYearMakes(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.doJSON(ctx, "GET", "/api/v1/files/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetModels lists the models under one year/make.
func (c *Client) GetModels(ctx context.Context, yearMake string) ([]string, error) {
	var out []string
	path := fmt.Sprintf("/api/v1/files/%s", url.PathEscape(yearMake))
	if err := c.doJSON(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFiles fetches the raw listing for one (yearMake, model) pair.
func (c *Client) GetFiles(ctx context.Context, yearMake, model string) ([]FileInfo, error) {
	var out []FileInfo
	path := fmt.Sprintf("/api/v1/files/%s/%s", url.PathEscape(yearMake), url.PathEscape(model))
	if err := c.doJSON(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadFile streams a single file. parentDir is empty for root files.
func (c *Client) DownloadFile(ctx context.Context, yearMake, model, fileName, parentDir string) (io.ReadCloser, int64, error) {
	path := fmt.Sprintf("/api/v1/files/%s/%s/download/%s",
		url.PathEscape(yearMake), url.PathEscape(model), url.PathEscape(fileName))
	if parentDir != "" {
		path += "/" + url.PathEscape(parentDir)
	}
	return c.stream(ctx, "GET", path, nil)
}

// DownloadDirectory streams an archive of every file in one directory.
func (c *Client) DownloadDirectory(ctx context.Context, yearMake, model, dirName string) (io.ReadCloser, int64, error) {
	path := fmt.Sprintf("/api/v1/files/%s/%s/download-directory/%s",
		url.PathEscape(yearMake), url.PathEscape(model), url.PathEscape(dirName))
	return c.stream(ctx, "GET", path, nil)
}

// DownloadAll streams an archive of the whole model listing. Admin only;
// the server is the actual authority, clients just avoid the round trip.
func (c *Client) DownloadAll(ctx context.Context, yearMake, model string) (io.ReadCloser, int64, error) {
	path := fmt.Sprintf("/api/v1/files/%s/%s/download-all",
		url.PathEscape(yearMake), url.PathEscape(model))
	return c.stream(ctx, "GET", path, nil)
}

// DownloadSelected streams an archive of the named files. Entries inside a
// directory are encoded as "parent__name"; root files are the bare name.
func (c *Client) DownloadSelected(ctx context.Context, yearMake, model string, fileNames []string) (io.ReadCloser, int64, error) {
	path := fmt.Sprintf("/api/v1/files/%s/%s/download-selected",
		url.PathEscape(yearMake), url.PathEscape(model))
	body := map[string][]string{"fileNames": fileNames}
	return c.stream(ctx, "POST", path, body)
}
