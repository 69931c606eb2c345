// Package config loads the configuration of the reactor command.
//
// The configuration lives in reactor.json, reactor.yaml or reactor.yml.
// Every field is optional; a missing file yields the defaults.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":9464",
//	    "shutdownTimeout": "10s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "reactor"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "trackEvents": false
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "debug": {
//	    "logTrack": false,
//	    "logTrigger": false,
//	    "logEffectRuns": false
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Addr)
package config
