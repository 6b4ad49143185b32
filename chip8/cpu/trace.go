package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/disasm"
)

// TraceRecord describes one executed instruction along with the register
// state before and after it ran.
type TraceRecord struct {
	Instruction Instruction
	Known       bool
	Before      Registers
	After       Registers
	StackDepth  int
}

// Tracer receives a record for every executed instruction.
type Tracer interface {
	Trace(rec TraceRecord)
}

// NopTracer discards every record.
type NopTracer struct{}

func (NopTracer) Trace(TraceRecord) {}

// LogTracer writes a debug level record per instruction to a slog logger.
type LogTracer struct {
	logger *slog.Logger
}

func NewLogTracer(logger *slog.Logger) *LogTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTracer{logger: logger}
}

func (t *LogTracer) Trace(rec TraceRecord) {
	if !rec.Known {
		t.logger.Debug("Unknown opcode skipped",
			"pc", fmt.Sprintf("0x%03X", rec.Before.PC),
			"opcode", fmt.Sprintf("0x%04X", rec.Instruction.Opcode))
		return
	}

	t.logger.Debug("Executed",
		"pc", fmt.Sprintf("0x%03X", rec.Before.PC),
		"opcode", fmt.Sprintf("0x%04X", rec.Instruction.Opcode),
		"asm", disasm.Disassemble(rec.Instruction.Opcode),
		"next_pc", fmt.Sprintf("0x%03X", rec.After.PC),
		"i", fmt.Sprintf("0x%03X", rec.After.I),
		"vf", rec.After.V[flagRegister],
		"stack", rec.StackDepth)
}

// RecordingTracer keeps every record in memory, mostly useful in tests.
type RecordingTracer struct {
	Records []TraceRecord
}

func (r *RecordingTracer) Trace(rec TraceRecord) {
	r.Records = append(r.Records, rec)
}

var (
	_ Tracer = NopTracer{}
	_ Tracer = (*LogTracer)(nil)
	_ Tracer = (*RecordingTracer)(nil)
)
