package models

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrNotFound = status.Errorf(codes.NotFound, "not found")

var (
	ErrShopInvalid      = status.Error(codes.InvalidArgument, "shopId is invalid")
	ErrProductNotFound  = status.Error(codes.NotFound, "Product is not found with this id")
	ErrNoFilesUploaded  = status.Error(codes.InvalidArgument, "No files were uploaded.")
	ErrImageUploadFails = status.Error(codes.Internal, "Failed to upload one or more images.")
)

// InvalidArgument reports a client side failure carrying the cause detail.
func InvalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// Internal reports a server side failure with a client facing message.
func Internal(format string, args ...any) error {
	return status.Errorf(codes.Internal, format, args...)
}
