package cpu

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracer_recordsEveryStep(t *testing.T) {
	cpu, _, _ := newTestCPU(t, 0x6A05, 0xF165)
	rec := &RecordingTracer{}
	cpu.SetTracer(rec)

	require.NoError(t, cpu.Step())
	require.NoError(t, cpu.Step())
	require.Len(t, rec.Records, 2)

	first := rec.Records[0]
	assert.True(t, first.Known)
	assert.Equal(t, uint16(0x6A05), first.Instruction.Opcode)
	assert.Equal(t, uint16(0x200), first.Before.PC)
	assert.Equal(t, uint16(0x202), first.After.PC)
	assert.Equal(t, uint8(0), first.Before.V[0xA])
	assert.Equal(t, uint8(5), first.After.V[0xA])

	second := rec.Records[1]
	assert.False(t, second.Known)
	assert.Equal(t, second.Before.V, second.After.V)
}

func TestTracer_doesNotChangeBehaviour(t *testing.T) {
	program := []uint16{0x6A05, 0x7A03, 0x8124, 0xA300}

	plain, _, _ := newTestCPU(t, program...)
	traced, _, _ := newTestCPU(t, program...)
	traced.SetTracer(&RecordingTracer{})

	for range program {
		require.NoError(t, plain.Step())
		require.NoError(t, traced.Step())
	}
	assert.Equal(t, plain.Registers(), traced.Registers())
}

func TestTracer_nilResetsToNop(t *testing.T) {
	cpu, _, _ := newTestCPU(t, 0x6A05)
	cpu.SetTracer(nil)

	assert.NotPanics(t, func() { _ = cpu.Step() })
}

func TestLogTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cpu, _, _ := newTestCPU(t, 0x6A05, 0xE19E)
	cpu.SetTracer(NewLogTracer(logger))

	require.NoError(t, cpu.Step())
	require.NoError(t, cpu.Step())

	out := buf.String()
	assert.Contains(t, out, "msg=Executed")
	assert.Contains(t, out, "opcode=0x6A05")
	assert.Contains(t, out, `asm="LD VA, 0x05"`)
	assert.Contains(t, out, "msg=\"Unknown opcode skipped\"")
	assert.Contains(t, out, "opcode=0xE19E")
}
