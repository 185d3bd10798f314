// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/ttyview/lib/config"
)

// Open builds the Store selected by the store configuration.
func Open(ctx context.Context, storeConfig config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch storeConfig.Backend {
	case config.BackendDirectory:
		return NewDirectory(storeConfig.Directory, logger)
	case config.BackendS3:
		client, err := NewS3Client(ctx, S3ClientConfig{
			Region:          storeConfig.Region,
			Endpoint:        storeConfig.Endpoint,
			AccessKeyID:     storeConfig.AccessKeyID,
			SecretAccessKey: storeConfig.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return NewS3(client, storeConfig.Bucket, storeConfig.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeConfig.Backend)
	}
}
