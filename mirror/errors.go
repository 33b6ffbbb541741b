package mirror

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/shellcat/snapshot"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return snapshot.ErrNotFound
	case codes.InvalidArgument:
		// Server uses InvalidArgument for malformed/undefined CIDs.
		return snapshot.ErrInvalidCID
	case codes.DataLoss:
		// Server uses DataLoss when stored bytes do not match the CID.
		return snapshot.ErrCIDMismatch
	default:
		return err
	}
}
