// Package config provides configuration parsing for vitelink projects.
//
// The configuration lives at the project root in vitelink.json. TOML
// (vitelink.toml) and YAML (vitelink.yaml, vitelink.yml) are accepted too;
// the first file found, in that order, wins.
//
// # Configuration File Structure
//
//	{
//	  "dist": "public/build",
//	  "manifest": "",
//	  "snippet": "",
//	  "dev": {
//	    "host": "localhost",
//	    "port": 5173,
//	    "mode": "auto",
//	    "probeTimeout": "5s"
//	  },
//	  "serve": {
//	    "addr": ":8080",
//	    "shutdownTimeout": "10s",
//	    "files": false
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vitelink",
//	    "path": "/metrics"
//	  },
//	  "s3": {
//	    "bucket": "",
//	    "prefix": "",
//	    "region": "",
//	    "endpoint": "",
//	    "pathStyle": false
//	  }
//	}
//
// Relative paths are resolved against the directory holding the file. When
// s3.bucket is set, dist and manifest are object keys instead.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Manifest:", cfg.ManifestPath())
package config
