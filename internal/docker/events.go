package docker

import (
	"context"
	"errors"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/model"
)

var errStopped = errors.New("stream stopped")

// StreamAuditEvents follows the container's log from the beginning and
// emits the audit events in it. Events without a server template get the
// container's.
func (c *Client) StreamAuditEvents(server model.ServerTemplate) (<-chan audit.Event, <-chan error, func()) {
	eventsChan := make(chan audit.Event)
	errChan := make(chan error, 1)

	ctx, cancel := context.WithCancel(c.ctx)

	go func() {
		defer close(eventsChan)
		defer close(errChan)

		info, err := c.cli.ContainerInspect(ctx, server.ContainerID)
		if err != nil {
			errChan <- err
			return
		}

		options := container.LogsOptions{
			ShowStdout: true,
			ShowStderr: true,
			Follow:     true, // Stream logs continuously
			Tail:       "all",
		}

		reader, err := c.cli.ContainerLogs(ctx, server.ContainerID, options)
		if err != nil {
			errChan <- err
			return
		}
		defer reader.Close()

		err = decodeLogStream(reader, info.Config != nil && info.Config.Tty, func(e audit.Event) error {
			if e.ServerTemplateID == "" {
				e.ServerTemplateID = server.ID
			}
			select {
			case eventsChan <- e:
				return nil
			case <-ctx.Done():
				return errStopped
			}
		})
		if err != nil && !errors.Is(err, errStopped) && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	return eventsChan, errChan, cancel
}

// decodeLogStream reads a docker log stream and passes each audit event to
// fn. Non-tty streams carry an 8-byte header per frame which stdcopy strips.
func decodeLogStream(r io.Reader, tty bool, fn func(audit.Event) error) error {
	if tty {
		_, err := audit.ReadAll(r, fn)
		return err
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, r)
		pw.CloseWithError(err)
	}()

	_, err := audit.ReadAll(pr, fn)
	// unblock StdCopy if ReadAll stopped early
	pr.CloseWithError(err)
	return err
}
