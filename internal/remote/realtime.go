package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// Subscribe opens the change stream of table. The channel is closed when the stream ends
// or ctx is cancelled. Events only say that something changed; they carry no row data.
func (c *Client) Subscribe(ctx context.Context, table string) (<-chan domain.ChangeEvent, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/realtime/"+url.PathEscape(table), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		defer resp.Body.Close()
		if err := decodeEnvelope(resp, nil); err != nil {
			return nil, err
		}
		return nil, &APIError{Status: resp.StatusCode, Message: "realtime stream unavailable"}
	}

	events := make(chan domain.ChangeEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		var data strings.Builder
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()

			switch {
			case line == "":
				if data.Len() == 0 {
					continue
				}

				var event domain.ChangeEvent
				err := json.Unmarshal([]byte(data.String()), &event)
				data.Reset()
				if err != nil {
					slog.Error("failed to decode change event", "table", table, "error", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			case strings.HasPrefix(line, ":"):
				// comment, heartbeats
			case strings.HasPrefix(line, "data:"):
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			slog.Error("realtime stream closed", "table", table, "error", err)
		}
	}()

	return events, nil
}
