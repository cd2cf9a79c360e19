package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Environment    string   `json:"environment"`
		RPID           string   `json:"rp_id"`
		RPName         string   `json:"rp_name"`
		AllowedOrigins []string `json:"allowed_origins"`
		KDFIterations  int      `json:"kdf_iterations"`
		ChallengeTTL   Duration `json:"challenge_ttl"`
		SessionSecret  string   `json:"session_secret"`
		SessionIssuer  string   `json:"session_issuer"`
		SessionMaxAge  Duration `json:"session_max_age"`

		Apple struct {
			TeamID     string `json:"team_id"`
			ClientID   string `json:"client_id"`
			KeyID      string `json:"key_id"`
			PrivateKey string `json:"private_key"`
		} `json:"apple,omitempty"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment:    jsonCfg.App.Environment,
			RPID:           jsonCfg.App.RPID,
			RPName:         jsonCfg.App.RPName,
			AllowedOrigins: jsonCfg.App.AllowedOrigins,
			KDFIterations:  jsonCfg.App.KDFIterations,
			ChallengeTTL:   time.Duration(jsonCfg.App.ChallengeTTL),
			SessionSecret:  jsonCfg.App.SessionSecret,
			SessionIssuer:  jsonCfg.App.SessionIssuer,
			SessionMaxAge:  time.Duration(jsonCfg.App.SessionMaxAge),
			Apple: Apple{
				TeamID:     jsonCfg.App.Apple.TeamID,
				ClientID:   jsonCfg.App.Apple.ClientID,
				KeyID:      jsonCfg.App.Apple.KeyID,
				PrivateKey: jsonCfg.App.Apple.PrivateKey,
			},
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}
