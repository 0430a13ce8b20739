package config

import "time"

// Registration workflow variants. Exactly one is active per deployment.
const (
	RegistrationDirect  = "direct"
	RegistrationVerify  = "verify"
	RegistrationApprove = "approve"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rentwheels"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "3000"
	DefaultLogLevel = "info"

	DefaultTokenTTL = 24 * time.Hour

	DefaultRegistrationMode = RegistrationVerify
	DefaultVerificationTTL  = 24 * time.Hour
	DefaultFrontendURL      = "http://localhost:5173"
	DefaultBackendURL       = "http://localhost:3000"

	DefaultSMTPPort  = 587
	DefaultMailTopic = "mail-requests"
	DefaultMailDLQ   = "dlq-mail-requests"

	DefaultMinioEndpoint = "localhost:9000"
	DefaultMinioBucket   = "car-images"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 8 * 1024 * 1024 // multipart car images

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
