// Package weblog reports building events to the web logging service over gRPC.
//
// Requests and responses are well-known protobuf types (structpb.Struct and
// emptypb.Empty), so no generated stubs are needed. Client implements
// building.WebNotifier; Recorder is an in-process service used for loopback runs
// and tests.
package weblog
