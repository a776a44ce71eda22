// Package config loads the ballmapd service configuration.
//
// Sources, lowest priority first:
//
//  1. Defaults (Default)
//  2. A YAML file
//  3. BALLMAP_* environment variables
//
// The merged configuration is validated with go-playground/validator struct tags.
//
// Example file:
//
//	server:
//	  addr: ":5001"
//	  request_timeout: 60s
//	  cors_origins: ["http://localhost:3000"]
//	storage:
//	  backend: s3
//	  s3:
//	    bucket: sae-data
//	    prefix: gemmascope-res-65k/
//	log:
//	  level: debug
package config
