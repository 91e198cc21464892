package domain

// A list of config keys understood by digiteye (see config.yaml).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyVisionBaseURL the root of the model-serving API, without the model part
	ConfigKeyVisionBaseURL = "visionBaseURL"
	// ConfigKeyVisionModel the name of the vision-capable model to query
	ConfigKeyVisionModel = "visionModel"
	// ConfigKeyRequestTimeout per-attempt timeout, in milliseconds
	ConfigKeyRequestTimeout = "requestTimeout"
	// ConfigKeyRequestMaxAttempts how many times a request is tried in total before giving up
	ConfigKeyRequestMaxAttempts = "requestMaxAttempts"
	// ConfigKeyRequestBaseDelay the first backoff delay, in milliseconds; it doubles after every failed attempt
	ConfigKeyRequestBaseDelay = "requestBaseDelay"
	// ConfigKeyBasePrompt overrides the instruction sent along with every drawing
	ConfigKeyBasePrompt = "basePrompt"
	// ConfigKeyMaxImageSize images larger than this (in bytes) are rejected before anything is sent
	ConfigKeyMaxImageSize = "maxImageSize"
	// ConfigKeyMaxImagePixels images whose declared width*height exceeds this are rejected before being decoded
	ConfigKeyMaxImagePixels = "maxImagePixels"
	// ConfigKeyCredentialEnvVar the name of the environment variable holding the API credential.
	// The credential itself is never put into the config.
	ConfigKeyCredentialEnvVar = "credentialEnvVar"
	// ConfigKeyMetricsAddress if set, Prometheus metrics are served on this address at /metrics
	ConfigKeyMetricsAddress = "metricsAddress"
	// ConfigKeyAgentName the nickname the IRC bot uses; messages addressed to it are treated as queries
	ConfigKeyAgentName = "agentName"
	// ConfigKeyRoomName the IRC channel to join, without the leading '#'
	ConfigKeyRoomName = "roomName"
	// ConfigKeyServerName the IRC server address, host:port
	ConfigKeyServerName = "serverName"
)
