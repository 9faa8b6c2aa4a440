package connector

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kolo/xmlrpc"
)

// Client talks XML-RPC to a back office that exposes its work orders that
// way instead of handing out spreadsheet exports
type Client struct {
	URL        string
	Database   string
	Username   string
	Password   string
	Uid        int
	CommonURL  string
	ObjectURL  string
	HttpClient *http.Client
}

// NewClient creates a new back-office client
func NewClient(url, db, username, password string) *Client {
	return &Client{
		URL:        url,
		Database:   db,
		Username:   username,
		Password:   password,
		CommonURL:  fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL:  fmt.Sprintf("%s/xmlrpc/2/object", url),
		HttpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate authenticates with the back office and returns the user ID
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.CommonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}

	c.Uid = uid
	return uid, nil
}

// FetchWorkOrders pulls the complete current export of open work orders.
// The result is raw field maps; the import pipeline treats the field names
// exactly like spreadsheet headers and infers a mapping from them.
func (c *Client) FetchWorkOrders(model string, fields []string, limit int) ([]map[string]interface{}, error) {
	client, err := xmlrpc.NewClient(c.ObjectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{
		c.Database,
		c.Uid,
		c.Password,
		model,
		"search_read",
		[]interface{}{[]interface{}{}},
		map[string]interface{}{
			"fields": fields,
			"limit":  limit,
		},
	}

	var rows []map[string]interface{}
	if err := client.Call("execute_kw", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to execute search_read: %w", err)
	}

	return rows, nil
}
