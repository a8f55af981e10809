package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aretw0/storyviz/pkg/domain"
)

// StoriesFromArgs resolves the stories source from the --stories and --url flags.
// A URL is downloaded into a temporary file whose path is returned; the caller owns it.
func StoriesFromArgs(ctx context.Context, stories, url string, client *http.Client) (domain.StoriesSource, error) {
	switch {
	case stories != "" && url != "":
		return "", fmt.Errorf("%w: --stories and --url are mutually exclusive", domain.ErrStoryResolution)
	case url != "":
		path, err := download(ctx, url, client)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
		}
		return domain.StoriesSource(path), nil
	case stories != "":
		return domain.StoriesSource(stories), nil
	default:
		return "", fmt.Errorf("%w: one of --stories or --url is required", domain.ErrStoryResolution)
	}
}

func download(ctx context.Context, url string, client *http.Client) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "storyviz-stories-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save %s: %w", url, err)
	}
	return tmp.Name(), nil
}
