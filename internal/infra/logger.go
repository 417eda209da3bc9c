// README: Zap logger construction keyed off the runtime environment.
package infra

import "go.uber.org/zap"

func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
