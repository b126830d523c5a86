// Package config handles loading and validating accountd configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (ACCOUNTD_* prefix)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (the JWT signing secret) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret is required and never logged or returned to clients
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
