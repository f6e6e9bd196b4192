package blob

import (
	"context"
	"fmt"
	"os"

	"takeoffcore/internal/infra/blob/fs"
	"takeoffcore/internal/infra/blob/memory"
	"takeoffcore/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
//
//	TAKEOFFCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	TAKEOFFCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./exports)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("TAKEOFFCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("TAKEOFFCORE_BLOB_FS_ROOT")
		return fs.New(root)
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
