// Package gcal implements the remote calendar store against the Google
// Calendar v3 API.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/pkozlov/blackoutcal/core/calendar"
)

// Config holds the OAuth file locations and the timezone written into
// events.
type Config struct {
	// CredentialsFile is the OAuth client secret JSON downloaded from the
	// cloud console.
	CredentialsFile string `json:"credentials_file"`
	// TokenFile is the stored user token. It must already exist; the
	// one-time authorization flow is performed outside this service.
	TokenFile string `json:"token_file"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.CredentialsFile == "" {
		c.CredentialsFile = "credentials.json"
	}
	if c.TokenFile == "" {
		c.TokenFile = "token.json"
	}
}

// Client talks to one Google Calendar account. It implements
// calendar.Store.
type Client struct {
	svc *gcalendar.Service
	tz  string
}

// New builds a Client from the stored OAuth credentials. The token is
// refreshed automatically when expired.
func New(ctx context.Context, cfg Config, tz string) (*Client, error) {
	cfg.SetDefaults()
	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(secret, gcalendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	tokenData, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token (run the authorization flow first): %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	svc, err := gcalendar.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return &Client{svc: svc, tz: tz}, nil
}

// List returns the events in [from, to) matching query, expanded to single
// instances and ordered by start time.
func (c *Client) List(ctx context.Context, calendarID string, from, to time.Time, query string) ([]calendar.Event, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Q(query).
		Context(ctx)
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", calendarID, err)
	}
	out := make([]calendar.Event, 0, len(res.Items))
	for _, item := range res.Items {
		ev := calendar.Event{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
		}
		if item.Start != nil && item.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
				ev.Start = t
			}
		}
		if item.End != nil && item.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				ev.End = t
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// Insert creates one event with a popup reminder shortly before the outage.
func (c *Client) Insert(ctx context.Context, calendarID string, ev calendar.Event) error {
	body := &gcalendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &gcalendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: c.tz},
		End:         &gcalendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: c.tz},
		ColorId:     "11",
		Reminders: &gcalendar.EventReminders{
			UseDefault:      false,
			Overrides:       []*gcalendar.EventReminder{{Method: "popup", Minutes: 15}},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if _, err := c.svc.Events.Insert(calendarID, body).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert into %s: %w", calendarID, err)
	}
	return nil
}

// Delete removes one event. Responses saying the event is already absent
// map to calendar.ErrGone.
func (c *Client) Delete(ctx context.Context, calendarID, eventID string) error {
	err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if gerr, ok := err.(*googleapi.Error); ok {
		if gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone {
			return fmt.Errorf("%w: %s", calendar.ErrGone, eventID)
		}
	}
	return fmt.Errorf("delete %s from %s: %w", eventID, calendarID, err)
}
