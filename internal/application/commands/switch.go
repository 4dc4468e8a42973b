package commands

import (
	"context"

	"harmonyscope/internal/application"
)

// SwitchStoreCommand points the locator at another store.
// Components pick the new location up the next time they open a session.
type SwitchStoreCommand struct {
	locator  *application.Locator
	Location string

	// Check, when set, must accept the new location before the locator changes
	Check func(ctx context.Context, location string) error
}

// NewSwitchStoreCommand creates a new SwitchStoreCommand
func NewSwitchStoreCommand(locator *application.Locator, location string) *SwitchStoreCommand {
	return &SwitchStoreCommand{
		locator:  locator,
		Location: location,
	}
}

// Validate checks the command parameters
func (c *SwitchStoreCommand) Validate() error {
	return application.ValidateRequired("location", c.Location)
}

// Execute runs the switch store command
func (c *SwitchStoreCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return c.locator.Location(), err
	}
	if c.Check != nil {
		if err := c.Check(ctx, c.Location); err != nil {
			return c.locator.Location(), err
		}
	}
	return c.locator.Swap(c.Location)
}
