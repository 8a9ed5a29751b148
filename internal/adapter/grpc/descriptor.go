package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// protoFile is the file the service descriptor is published under
const protoFile = "papertrade/v1/papertrade.proto"

func init() {
	if err := registerFileDescriptor(protoregistry.GlobalFiles); err != nil {
		panic(err)
	}
}

// fileDescriptorProto describes the PaperTradeService in terms of the well-known types
func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	emptyFile := emptypb.File_google_protobuf_empty_proto
	structFile := structpb.File_google_protobuf_struct_proto

	empty := "." + string((&emptypb.Empty{}).ProtoReflect().Descriptor().FullName())
	strct := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	method := func(name, input, output string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(input),
			OutputType: proto.String(output),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String("papertrade.v1"),
		Dependency: []string{emptyFile.Path(), structFile.Path()},
		Syntax:     proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("PaperTradeService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetPortfolioStatus", empty, strct),
				method("SimulateTrade", strct, strct),
				method("PreviewTrade", strct, strct),
			},
		}},
	}
}

// registerFileDescriptor builds the service file and adds it to files
// A file that is already present is left alone.
func registerFileDescriptor(files *protoregistry.Files) error {
	if _, err := files.FindFileByPath(protoFile); err == nil {
		return nil
	}

	fd, err := protodesc.NewFile(fileDescriptorProto(), files)
	if err != nil {
		return fmt.Errorf("build %s descriptor: %w", protoFile, err)
	}
	if err := files.RegisterFile(fd); err != nil {
		return fmt.Errorf("register %s descriptor: %w", protoFile, err)
	}
	return nil
}
