package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/drakos74/h-clus/internal/api"
	"github.com/drakos74/h-clus/internal/cluster"
	"github.com/drakos74/h-clus/internal/data"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ResponseErr signals a request that the server reported as failed.
var ResponseErr = errors.New("server error")

// Client drives a clustering session over a single connection.
// It is not safe for concurrent use.
type Client struct {
	conn    net.Conn
	channel *api.Channel
	log     zerolog.Logger
}

// Dial connects to the clustering server at the given address.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to '%s': %v: %w", addr, err, api.ConnectionErr)
	}
	return New(conn), nil
}

// New creates a client on an established connection.
func New(conn net.Conn) *Client {
	return &Client{
		conn:    conn,
		channel: api.NewChannel(conn),
		log:     log.With().Str("server", conn.RemoteAddr().String()).Logger(),
	}
}

// WithLogger sets the log sink of the client.
func (c *Client) WithLogger(l zerolog.Logger) *Client {
	c.log = l
	return c
}

// Close closes the connection and with it the server session.
func (c *Client) Close() error {
	return c.conn.Close()
}

// LoadData asks for the available tables and loads the one returned by pick.
func (c *Client) LoadData(pick func(tables []string) string) error {
	if err := c.channel.Send(int(api.LoadData)); err != nil {
		return err
	}
	var raw json.RawMessage
	if err := c.channel.Receive(&raw); err != nil {
		return err
	}
	var tables []string
	if err := json.Unmarshal(raw, &tables); err != nil {
		// the server could not list the tables
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("unexpected response '%s': %w", string(raw), api.InvalidRequestErr)
		}
		return responseError(msg)
	}
	name := pick(tables)
	c.log.Debug().Strs("tables", tables).Str("table", name).Msg("load data")
	if err := c.channel.Send(name); err != nil {
		return err
	}
	return c.ack()
}

// Load loads the named table.
func (c *Client) Load(name string) error {
	return c.LoadData(func(tables []string) string {
		return name
	})
}

// Cluster builds the dendrogram of the loaded table and saves it under the given file name.
// The rendering is returned even if saving failed.
func (c *Client) Cluster(depth int, linkage cluster.Linkage, file string) (string, error) {
	if err := cluster.CheckFileName(file); err != nil {
		return "", err
	}
	if err := c.send(int(api.Cluster), depth, int(linkage)); err != nil {
		return "", err
	}
	if err := c.ack(); err != nil {
		return "", err
	}
	rendering, err := c.channel.ReceiveString()
	if err != nil {
		return "", err
	}
	if err := c.channel.Send(file); err != nil {
		return rendering, err
	}
	if err := c.ack(); err != nil {
		return rendering, fmt.Errorf("could not save dendrogram: %w", err)
	}
	c.log.Debug().Int("depth", depth).Str("linkage", linkage.String()).Str("file", file).Msg("cluster")
	return rendering, nil
}

// LoadDendrogram restores the saved dendrogram for the loaded table.
func (c *Client) LoadDendrogram(path string) (string, error) {
	if err := c.send(int(api.LoadDendrogram), path); err != nil {
		return "", err
	}
	if err := c.ack(); err != nil {
		return "", err
	}
	return c.channel.ReceiveString()
}

func (c *Client) send(vv ...interface{}) error {
	for _, v := range vv {
		if err := c.channel.Send(v); err != nil {
			return err
		}
	}
	return nil
}

// ack reads a single response and converts anything but the acknowledgment into an error.
func (c *Client) ack() error {
	response, err := c.channel.ReceiveString()
	if err != nil {
		return err
	}
	if response == api.OK {
		return nil
	}
	return responseError(response)
}

func responseError(response string) error {
	switch response {
	case api.NoData:
		return fmt.Errorf("%s: %w", response, data.NoDataErr)
	case api.InvalidRequest:
		return fmt.Errorf("%s: %w", response, api.InvalidRequestErr)
	}
	return fmt.Errorf("%s: %w", response, ResponseErr)
}
