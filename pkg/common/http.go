package common

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DownloadFromURL reads the content behind the URL, refusing anything larger than `maxSize` bytes so that
// a page which streams output forever can't exhaust memory.
func DownloadFromURL(url string, maxSize int64, timeout time.Duration) ([]byte, error) {
	response, err := resty.New().
		SetTimeout(timeout).
		R().
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, err
	}
	body := response.RawBody()
	defer func() {
		_ = body.Close()
	}()
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", response.StatusCode())
	}
	content, err := io.ReadAll(io.LimitReader(body, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxSize {
		return nil, fmt.Errorf("downloaded content exceeds %d bytes", maxSize)
	}
	return content, nil
}
