// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads ttyview configuration.
//
// Configuration comes from a single file named by the TTYVIEW_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). There is no discovery. YAML is the default format;
// files ending in .json or .jsonc are read as JSON with comments.
//
// Viewer deployments have always been configured through S3_BUCKET_NAME,
// AWS_REGION, ENDPOINT_URL, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY. Those variables fill store fields the file
// leaves empty, and are the only source of S3 credentials.
// [FromEnvironment] builds a configuration from them alone.
//
// Variable expansion (${HOME}, ${VAR:-default}) is applied to the
// listen address, the capture directory, and the S3 endpoint.
package config
