package feecting

import (
	markupcmd "github.com/goliatone/go-feecting/internal/commands/markup"
	"github.com/goliatone/go-feecting/internal/jobs"
	"github.com/goliatone/go-feecting/internal/markup"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

type (
	Input         = interfaces.Input
	Meta          = interfaces.Meta
	Party         = interfaces.Party
	Data          = interfaces.Data
	Result        = interfaces.Result
	ResultData    = interfaces.ResultData
	Variable      = interfaces.Variable
	VariableMap   = interfaces.VariableMap
	Directive     = interfaces.Directive
	Answer        = interfaces.Answer
	Responder     = interfaces.Responder
	ResponderFunc = interfaces.ResponderFunc
	Fetcher       = interfaces.Fetcher
	Job           = interfaces.Job
	JobStatus     = interfaces.JobStatus
	JobStore      = interfaces.JobStore

	AuditRecorder = jobs.AuditRecorder
	AuditEvent    = jobs.AuditEvent
	Sanitizer     = jobs.Sanitizer

	ParseCommand    = markupcmd.ParseCommand
	FetchCommand    = markupcmd.FetchCommand
	ResultSink      = markupcmd.ResultSink
	ResultSinkFunc  = markupcmd.ResultSinkFunc
	CommandRegistry = markupcmd.CommandRegistry
	CommandHandlers = markupcmd.HandlerSet
)

// Errors surfaced by job processing. Match them with errors.Is.
var (
	ErrJobNotFound     = interfaces.ErrJobNotFound
	ErrJobExists       = interfaces.ErrJobExists
	ErrNoResponder     = jobs.ErrNoResponder
	ErrResponderFailed = jobs.ErrResponderFailed
	ErrJobTimeout      = jobs.ErrJobTimeout
	ErrJobCanceled     = jobs.ErrJobCanceled
	ErrJobEvicted      = jobs.ErrJobEvicted
	ErrTextTooLarge    = markup.ErrTextTooLarge
)
