package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDsnWithTLS(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		tls  bool
		want string
	}{
		{name: "disabled", dsn: "host=db sslmode=disable", want: "host=db sslmode=disable"},
		{name: "replace", dsn: "host=db sslmode=disable", tls: true, want: "host=db sslmode=require"},
		{name: "replace spaced", dsn: "host=db SSLMODE = prefer user=x", tls: true, want: "host=db sslmode=require user=x"},
		{name: "append", dsn: "host=db", tls: true, want: "host=db sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsnWithTLS(tt.dsn, tt.tls))
		})
	}
}
