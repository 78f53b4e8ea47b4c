package game

import (
	"errors"
	"fmt"
)

// RuleError reports an action rejected by the game rules: state is unchanged
// and the message is safe to forward to the offending player. Any other error
// returned by an engine method is an internal invariant violation, fatal for
// the room.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleErrorf(format string, args ...any) error {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

// IsRuleError reports whether err is a caller error rather than an engine
// invariant violation.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
