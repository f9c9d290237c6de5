package metadata

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"idlgen/errors"
)

// FetchTimeout bounds a single model download.
var FetchTimeout = 30 * time.Second

// MaxModelSize is the largest model document Fetch accepts, in bytes.
var MaxModelSize int64 = 16 << 20

// Fetch downloads a model document published over http(s).
func Fetch(url string) ([]byte, error) {
	data, err := queryGet(url)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindIO, err, fmt.Sprintf("fetch %s", url))
	}
	return data, nil
}

func queryGet(url string) ([]byte, error) {
	client := http.Client{Timeout: FetchTimeout}
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, MaxModelSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxModelSize {
		return nil, fmt.Errorf("model larger than %d bytes", MaxModelSize)
	}
	return data, nil
}
