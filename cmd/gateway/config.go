package main

import "fmt"

type Config struct {
	LogLevel    string `env:"LOG_LEVEL,default=INFO"`
	LedgerPath  string `env:"LEDGER_PATH,required=true" validate:"required"`
	NamespaceID string `env:"NAMESPACE_ID,required=true" validate:"required"`
	// READ_ONLY serves a snapshot of a ledger another process may own.
	ReadOnly bool   `env:"READ_ONLY,default=true"`
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8090" validate:"gte=1,lte=65535"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
