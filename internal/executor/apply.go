package executor

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"organizer/internal/fsutil"
	"organizer/internal/planner"
	"organizer/internal/rollback"
	"organizer/internal/services"
)

// Downloader fetches a poster URL to a local path, returning its SHA-256
// and byte count. Injected so tests never hit the network.
type Downloader interface {
	Download(ctx context.Context, url, path string) (sha256 string, size int64, err error)
}

// httpDownloader is the production Downloader: a streaming GET straight to
// the target path with an fsync before the caller trusts the result.
type httpDownloader struct {
	client *http.Client
}

// NewHTTPDownloader returns a Downloader backed by client, or a default
// http.Client if nil.
func NewHTTPDownloader(client *http.Client) Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return httpDownloader{client: client}
}

func (d httpDownloader) Download(ctx context.Context, url, path string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", "build request", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, services.Wrap(services.ErrTransient, "executor", "download", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", resp.Status, nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", "create parent", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", "create file", err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return "", 0, services.Wrap(services.ErrTransient, "executor", "download", "stream body", err)
	}
	if err := f.Sync(); err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", "fsync", err)
	}
	digest, err := fsutil.SHA256File(path)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "executor", "download", "hash", err)
	}
	return digest, n, nil
}

// applyOperation performs one forward operation and returns the reverse
// step for it. ok is false when the operation was a true no-op (the
// directory already existed) and no reverse step should be recorded.
func applyOperation(ctx context.Context, op planner.Operation, downloader Downloader) (rev rollback.Operation, ok bool, err error) {
	switch op.Kind {
	case planner.OpMkdir:
		created, err := fsutil.EnsureDirectory(op.Path)
		if err != nil {
			return rollback.Operation{}, false, services.Wrap(services.ErrExternalTool, "executor", "mkdir", op.Path, err)
		}
		if !created {
			return rollback.Operation{}, false, nil
		}
		return rollback.Rmdir(op.Seq, op.Path), true, nil

	case planner.OpMove:
		result, err := fsutil.Move(op.Src, op.Dst, op.ExpectedSHA256)
		if err != nil {
			return rollback.Operation{}, false, err
		}
		return rollback.Move(op.Seq, op.Src, op.Dst, result.SHA256), true, nil

	case planner.OpWrite:
		if err := os.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
			return rollback.Operation{}, false, services.Wrap(services.ErrExternalTool, "executor", "write_file", op.Path, err)
		}
		if err := os.WriteFile(op.Path, op.Bytes, 0o644); err != nil {
			return rollback.Operation{}, false, services.Wrap(services.ErrExternalTool, "executor", "write_file", op.Path, err)
		}
		if err := fsutil.FsyncParent(op.Path); err != nil {
			return rollback.Operation{}, false, services.Wrap(services.ErrExternalTool, "executor", "write_file", "fsync", err)
		}
		digest, err := fsutil.SHA256File(op.Path)
		if err != nil {
			return rollback.Operation{}, false, services.Wrap(services.ErrExternalTool, "executor", "write_file", "hash", err)
		}
		return rollback.DeleteIfUnchanged(op.Seq, "write_file", op.Path, digest), true, nil

	case planner.OpDownload:
		digest, size, err := downloader.Download(ctx, op.URL, op.Path)
		if err != nil {
			return rollback.Operation{}, false, err
		}
		if size < op.MinBytes {
			_ = os.Remove(op.Path)
			return rollback.Operation{}, false, services.Wrap(services.ErrIntegrity, "executor", "download", "response below minimum size", nil)
		}
		return rollback.DeleteIfUnchanged(op.Seq, "download", op.Path, digest), true, nil

	default:
		return rollback.Operation{}, false, services.Wrap(services.ErrValidation, "executor", "apply", "unknown operation kind", nil)
	}
}
