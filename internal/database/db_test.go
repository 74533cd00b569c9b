package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "with password",
			params: Params{User: "helpdesk", Pass: "s3cret", Host: "db", Port: "3306", Name: "helpdesk"},
			want:   "helpdesk:s3cret@tcp(db:3306)/helpdesk?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			name:   "without password",
			params: Params{User: "root", Host: "localhost", Port: "3307", Name: "helpdesk_test"},
			want:   "root@tcp(localhost:3307)/helpdesk_test?charset=utf8mb4&parseTime=true&loc=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsn(tt.params))
		})
	}
}
