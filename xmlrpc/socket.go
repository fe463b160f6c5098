package xmlrpc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WaitForSocket blocks until path exists or ctx is done. It is meant for
// unix endpoints of a daemon that is still starting up.
func WaitForSocket(ctx context.Context, path string) error {
	exists, err := pathExists(path)
	if err != nil || exists {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	// The socket may have been created before the watch was registered
	if exists, err := pathExists(path); err != nil || exists {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watching %s: watcher closed", path)
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) || !event.Has(fsnotify.Create) {
				continue
			}
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watching %s: watcher closed", path)
			}
			if err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
	}
}

// WaitForSocket waits for the client's unix socket; it returns immediately
// for TCP endpoints.
func (c *Client) WaitForSocket(ctx context.Context) error {
	if c.SocketPath == "" {
		return nil
	}
	return WaitForSocket(ctx, c.SocketPath)
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
