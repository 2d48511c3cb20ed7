package kommo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

var ErrNotConfigured = errors.New("kommo: api token not configured")

// Client mirrors converted leads into Kommo as a contact plus a deal.
type Client struct {
	http     *resty.Client
	statusID int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrNotConfigured
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetAuthToken(cfg.APIToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, statusID: cfg.StatusID}, nil
}

func (c *Client) SyncConvertedLead(ctx context.Context, p queue.LeadConvertedPayload) error {
	contactID, err := c.findOrCreateContact(ctx, p)
	if err != nil {
		return err
	}

	body := []leadRequest{{
		Name:     fmt.Sprintf("%s (%s)", p.OrganizationName, p.Segment),
		StatusID: c.statusID,
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: "converted"}, {Name: strings.ToLower(p.Segment)}},
			Contacts: []entityRef{{ID: contactID}},
		},
	}}

	var result leadsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/leads")
	if err != nil {
		return fmt.Errorf("kommo create lead: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("kommo create lead: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Embedded.Leads) == 0 {
		return errors.New("kommo create lead: empty response")
	}

	log.Info().
		Int("kommo_lead_id", result.Embedded.Leads[0].ID).
		Int("kommo_contact_id", contactID).
		Str("lead_id", p.LeadID).
		Msg("kommo deal created")
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, p queue.LeadConvertedPayload) (int, error) {
	id, err := c.findContact(ctx, p.ContactEmail)
	if err != nil {
		return 0, err
	}
	if id > 0 {
		return id, nil
	}
	return c.createContact(ctx, p)
}

// findContact returns 0 when no contact matches.
func (c *Client) findContact(ctx context.Context, email string) (int, error) {
	var result contactsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", email).
		SetResult(&result).
		Get("/contacts")
	if err != nil {
		return 0, fmt.Errorf("kommo find contact: %w", err)
	}
	// Kommo answers 204 with no body when the search is empty.
	if resp.StatusCode() == http.StatusNoContent {
		return 0, nil
	}
	if resp.IsError() {
		return 0, fmt.Errorf("kommo find contact: status %d", resp.StatusCode())
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, nil
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, p queue.LeadConvertedPayload) (int, error) {
	fields := []customField{{
		FieldCode: "EMAIL",
		Values:    []customFieldValue{{Value: p.ContactEmail, EnumCode: "WORK"}},
	}}
	if p.Phone != "" {
		fields = append(fields, customField{
			FieldCode: "PHONE",
			Values:    []customFieldValue{{Value: p.Phone, EnumCode: "WORK"}},
		})
	}

	var result contactsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody([]contactRequest{{Name: p.ContactName, CustomFieldsValues: fields}}).
		SetResult(&result).
		Post("/contacts")
	if err != nil {
		return 0, fmt.Errorf("kommo create contact: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("kommo create contact: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo create contact: empty response")
	}
	return result.Embedded.Contacts[0].ID, nil
}
