package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownStorageDriver error if config storage.driver is not supported.
	ErrUnknownStorageDriver = errors.New("toml config storage.driver must be one of local, s3, minio")

	// ErrUnknownSessionDriver error if config session.driver is not supported.
	ErrUnknownSessionDriver = errors.New("toml config session.driver must be one of memory, redis, postgres, mysql")

	// ErrMissingBucket error if a remote storage driver has no bucket.
	ErrMissingBucket = errors.New("toml config storage.bucket can not be empty for remote drivers")
)
