package utils

import (
	"fmt"

	"futures-relay/pkg/logger"

	"go.uber.org/zap"
)

// GoSafe runs fn in a goroutine and logs any panic with its stack.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic", logger.StringField("panic", fmt.Sprint(r)), zap.StackSkip("stack", 1))
			}
		}()
		fn()
	}()
}
