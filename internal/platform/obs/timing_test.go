package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := WithRequestID(context.Background(), "abc")
	err := errors.New("boom")
	Time(ctx, "matrix.Build")(&err)

	out := buf.String()
	require.Contains(t, out, "req_id=abc")
	require.Contains(t, out, "op=matrix.Build")
	require.Contains(t, out, "err=boom")
}

func TestRequestIDDefault(t *testing.T) {
	require.Equal(t, "-", RequestID(context.Background()))
}
