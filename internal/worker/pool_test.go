package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncolarEmailPresupuesto(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewDispatcher(rdb)

	err := d.EncolarEmailPresupuesto(context.Background(), "cliente@corralon.ar", "Presupuesto q1", "Hola", "presupuesto_q1.pdf")
	require.NoError(t, err)

	raw, err := rdb.RPop(context.Background(), QueueEmail).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "email", job.Type)

	var payload EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "cliente@corralon.ar", payload.ToEmail)
	assert.Equal(t, "Presupuesto q1", payload.Subject)
	assert.Equal(t, "presupuesto_q1.pdf", payload.PdfRef)
}
