package weblog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/building-controller/internal/logger"
)

// Event is one call received by the Recorder.
type Event struct {
	// ID is the client-generated event identifier.
	ID string
	// Method is MethodLogFireAlarm or MethodLogEngineerRequired.
	Method string
	// BuildingID identifies the reporting building.
	BuildingID string
	// Detail is the mode name or the faulty manager listing.
	Detail string
	// OccurredAt is the client timestamp; zero if it could not be parsed.
	OccurredAt time.Time
}

// recorderHandler is the handler type checked by grpc.Server.RegisterService.
type recorderHandler interface {
	record(ctx context.Context, method string, payload *structpb.Struct) (*emptypb.Empty, error)
}

// Recorder is an in-process web log service that keeps every event in memory.
type Recorder struct {
	// events holds received events in arrival order.
	events []Event
	// failure, when set, is returned to every caller instead of recording.
	failure error
	// mu protects events and failure.
	mu sync.Mutex
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return new(Recorder)
}

// Register exposes r on the gRPC server.
func Register(s grpc.ServiceRegistrar, r *Recorder) {
	s.RegisterService(&serviceDesc, r)
}

// Events returns a copy of the events received so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// SetFailure makes every following call fail with an Unavailable status carrying
// err's text. A nil err restores normal recording.
func (r *Recorder) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failure = err
}

func (r *Recorder) record(ctx context.Context, method string, payload *structpb.Struct) (*emptypb.Empty, error) {
	fields := payload.GetFields()

	detail, ok := fields[fieldDetail]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "detail is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return nil, status.Error(codes.Unavailable, r.failure.Error())
	}

	event := Event{
		ID:         fields[fieldEventID].GetStringValue(),
		Method:     method,
		BuildingID: fields[fieldBuildingID].GetStringValue(),
		Detail:     detail.GetStringValue(),
	}

	if ts, err := time.Parse(time.RFC3339Nano, fields[fieldOccurredAt].GetStringValue()); err == nil {
		event.OccurredAt = ts
	}

	r.events = append(r.events, event)

	logger.InfoKV(ctx, "Web log event recorded",
		"method", method,
		"event_id", event.ID,
		"building_id", event.BuildingID,
		"detail", event.Detail,
	)

	return new(emptypb.Empty), nil
}

// unaryHandler decodes a structpb.Struct request and dispatches it to the recorder.
func unaryHandler(method string) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := func(ctx context.Context, req any) (any, error) {
			//nolint:forcetypeassert // grpc only dispatches registered handler types.
			return srv.(recorderHandler).record(ctx, method, req.(*structpb.Struct))
		}

		if interceptor == nil {
			return call(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}

		return interceptor(ctx, in, info, call)
	}
}

// serviceDesc describes the web log service for grpc.Server.
//
//nolint:gochecknoglobals // Service descriptors are package-level by grpc convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*recorderHandler)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodLogFireAlarm, Handler: unaryHandler(MethodLogFireAlarm)},
		{MethodName: MethodLogEngineerRequired, Handler: unaryHandler(MethodLogEngineerRequired)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smartbuilding/weblog/v1/weblog.proto",
}

// Serve runs a gRPC server exposing r on lis until ctx is canceled.
func Serve(ctx context.Context, lis net.Listener, r *Recorder) error {
	server := grpc.NewServer()
	Register(server, r)

	// done is closed once GracefulStop returns.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		server.GracefulStop()
		close(done)
	}()

	logger.InfoKV(ctx, "Web log recorder listening", "address", lis.Addr().String())

	if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve web log: %w", err)
	}

	<-done

	return nil
}
