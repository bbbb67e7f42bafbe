package weblog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/building-controller/internal/domain/building"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "smartbuilding.weblog.v1.WebLogService"

	// MethodLogFireAlarm records that the building entered an emergency mode.
	MethodLogFireAlarm = "LogFireAlarm"
	// MethodLogEngineerRequired records the managers that need an engineer.
	MethodLogEngineerRequired = "LogEngineerRequired"

	// DefaultTimeout bounds each call when no timeout option is given.
	DefaultTimeout = 5 * time.Second
)

// Payload field names.
const (
	fieldEventID    = "event_id"
	fieldBuildingID = "building_id"
	fieldDetail     = "detail"
	fieldOccurredAt = "occurred_at"
)

// errAddressRequired is returned when Dial gets an empty address.
var errAddressRequired = errors.New("web log address must be provided")

// Client sends building events to the web logging service.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn
	// buildingID stamps every event.
	buildingID string
	// callTimeout bounds each call; zero means no deadline.
	callTimeout time.Duration
	// dialOptions are appended to the default transport options.
	dialOptions []grpc.DialOption
	// now returns the event timestamp.
	now func() time.Time
}

var _ building.WebNotifier = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithCallTimeout sets the deadline applied to each call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithBuildingID stamps events with the building identifier.
func WithBuildingID(id string) Option {
	return func(c *Client) {
		c.buildingID = id
	}
}

// WithDialOptions passes extra options to grpc.NewClient.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// Dial creates a client for the service at address.
// Transport is insecure; run it on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: DefaultTimeout,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append(
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		client.dialOptions...,
	)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial web log service: %w", err)
	}

	client.conn = conn

	return client, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// LogFireAlarm records that the building entered the named emergency mode.
func (c *Client) LogFireAlarm(ctx context.Context, modeName string) error {
	return c.send(ctx, MethodLogFireAlarm, modeName)
}

// LogEngineerRequired records the faulty manager listing.
func (c *Client) LogEngineerRequired(ctx context.Context, deviceListing string) error {
	return c.send(ctx, MethodLogEngineerRequired, deviceListing)
}

// send performs one unary call carrying detail.
func (c *Client) send(ctx context.Context, method, detail string) error {
	payload, err := structpb.NewStruct(map[string]any{
		fieldEventID:    uuid.NewString(),
		fieldBuildingID: c.buildingID,
		fieldDetail:     detail,
		fieldOccurredAt: c.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("build %s payload: %w", method, err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err = c.conn.Invoke(callCtx, fullMethod(method), payload, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	return nil
}

// callContext returns a context bounded by the call timeout, if any.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// fullMethod returns the gRPC path of a method, e.g. "/pkg.Service/Method".
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
