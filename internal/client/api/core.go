package api

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
)

// CoreClient talks to the core domain service.
type CoreClient struct {
	c *Client
}

func NewCoreClient(c *Client) *CoreClient {
	return &CoreClient{c: c}
}

// UserDetails lists user details. A zero userID lists all visible users.
// page defaults to 1 and limit to 30.
func (s *CoreClient) UserDetails(ctx context.Context, token string, userID int64, page, limit int) (*UserDetailsPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 30
	}
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	if userID != 0 {
		q.Set("userId", strconv.FormatInt(userID, 10))
	}

	var out UserDetailsPage
	err := s.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/v1/user_details",
		query:    q,
		token:    token,
		out:      &out,
		ok:       []int{http.StatusOK},
		fallback: "Failed to retrieve user details, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CoreClient) CreateUserDetails(ctx context.Context, token string, d UserDetails) (*UserDetails, error) {
	var out UserDetails
	err := s.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/v1/user_details",
		token:    token,
		body:     d,
		out:      &out,
		ok:       []int{http.StatusCreated},
		fallback: "Failed to create user details, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CoreClient) UpdateUserDetails(ctx context.Context, token string, userID int64, d UserDetails) (*UserDetails, error) {
	var out UserDetails
	err := s.c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/v1/user_details/" + strconv.FormatInt(userID, 10),
		token:    token,
		body:     d,
		out:      &out,
		ok:       []int{http.StatusOK},
		fallback: "Failed to update user details, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenderTypes returns the gender reference list ordered by SortOrder.
func (s *CoreClient) GenderTypes(ctx context.Context) ([]GenderType, error) {
	var out struct {
		Data []GenderType `json:"data"`
	}
	err := s.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/v1/gender_types",
		out:      &out,
		fallback: "Failed to fetch gender types.",
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out.Data, func(i, j int) bool { return out.Data[i].SortOrder < out.Data[j].SortOrder })
	return out.Data, nil
}

func (s *CoreClient) TicketCategories(ctx context.Context, token string, q CategoryQuery) ([]TicketCategory, error) {
	query := url.Values{"ticketTitle": {q.TicketTitle}}
	if q.Latitude != nil && q.Longitude != nil {
		query.Set("latitude", strconv.FormatFloat(*q.Latitude, 'f', -1, 64))
		query.Set("longitude", strconv.FormatFloat(*q.Longitude, 'f', -1, 64))
	}
	switch {
	case q.CustomerID != 0:
		query.Set("customerId", strconv.FormatInt(q.CustomerID, 10))
	case q.CustomerTypeID != 0:
		query.Set("customerTypeId", strconv.FormatInt(q.CustomerTypeID, 10))
	}

	var out struct {
		Data []TicketCategory `json:"data"`
	}
	err := s.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/v1/ticket_categories",
		query:    query,
		token:    token,
		out:      &out,
		fallback: "Failed to fetch categories",
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}
