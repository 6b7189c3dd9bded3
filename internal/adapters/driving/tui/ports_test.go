package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPorts(t *testing.T) {
	baseline := &MockBaselineService{}
	assignment := &MockAssignmentService{}

	ports := NewPorts(baseline, assignment)

	assert.Equal(t, baseline, ports.Baseline)
	assert.Equal(t, assignment, ports.Assignment)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "all set", ports: NewPorts(&MockBaselineService{}, &MockAssignmentService{})},
		{name: "assignment optional", ports: &Ports{Baseline: &MockBaselineService{}}},
		{name: "missing baseline", ports: &Ports{Assignment: &MockAssignmentService{}}, wantErr: ErrMissingBaselineService},
		{name: "nil ports", ports: nil, wantErr: ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
