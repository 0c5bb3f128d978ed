package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-feecting/internal/jobs"
	"github.com/goliatone/go-feecting/internal/markup"
)

const (
	commandValidationCode   = "FEECTING_COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "FEECTING_COMMAND_CANCELED"
	commandContextTimeout   = "FEECTING_COMMAND_TIMEOUT"
	commandContextErrorCode = "FEECTING_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "FEECTING_COMMAND_FAILED"
	responderFailedCode     = "FEECTING_RESPONDER_FAILED"
	jobTimeoutCode          = "FEECTING_JOB_TIMEOUT"
	jobEvictedCode          = "FEECTING_JOB_EVICTED"
	textTooLargeCode        = "FEECTING_TEXT_TOO_LARGE"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, jobs.ErrJobTimeout):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "job timed out waiting for answers").
			WithTextCode(jobTimeoutCode)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, jobs.ErrJobTimeout):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "job timed out waiting for answers").
			WithTextCode(jobTimeoutCode)
	case errors.Is(err, jobs.ErrJobEvicted):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "job evicted before completion").
			WithTextCode(jobEvictedCode)
	case errors.Is(err, jobs.ErrResponderFailed):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "responder failed").
			WithTextCode(responderFailedCode)
	case errors.Is(err, markup.ErrTextTooLarge):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "markup text too large").
			WithTextCode(textTooLargeCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
			WithTextCode(commandExecuteFailed)
	}
}
