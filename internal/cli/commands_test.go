package cli

import (
	"context"
	"testing"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{line: "on 2", want: Command{Op: OpOn, Layer: 2}},
		{line: "  OFF   3 ", want: Command{Op: OpOff, Layer: 3}},
		{line: "toggle 1", want: Command{Op: OpToggle, Layer: 1}},
		{line: "to 255", want: Command{Op: OpTo, Layer: 255}},
		{line: "show", want: Command{Op: OpShow}},
		{line: "q", want: Command{Op: OpQuit}},
		{line: "on 256", wantErr: true},
		{line: "on -1", wantErr: true},
		{line: "on", wantErr: true},
		{line: "show 1", wantErr: true},
		{line: "mo 1", wantErr: true},
		{line: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	km := keymap.New()

	require.NoError(t, Apply(ctx, km, Command{Op: OpOn, Layer: 2}))
	assert.Equal(t, domain.Layer(2), km.HighestActive())

	require.NoError(t, Apply(ctx, km, Command{Op: OpToggle, Layer: 4}))
	assert.Equal(t, domain.Layer(4), km.HighestActive())

	require.NoError(t, Apply(ctx, km, Command{Op: OpTo, Layer: 1}))
	assert.Equal(t, []domain.Layer{0, 1}, km.Active())

	require.NoError(t, Apply(ctx, km, Command{Op: OpOff, Layer: 1}))
	assert.Equal(t, domain.Layer(0), km.HighestActive())

	assert.ErrorIs(t, Apply(ctx, km, Command{Op: OpOff, Layer: 0}), domain.ErrDefaultLayer)
	assert.ErrorIs(t, Apply(ctx, km, Command{Op: OpQuit}), ErrQuit)
}
