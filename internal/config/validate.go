package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *GroundstationConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Router.QueueInitial < 1 {
		return errors.New("router.queue_initial must be >= 1")
	}
	if c.Router.QueueMax < -1 {
		return errors.New("router.queue_max must be -1 (unbounded) or >= 1")
	}
	if c.Router.QueueMax > 0 && c.Router.QueueInitial > c.Router.QueueMax {
		return fmt.Errorf("router.queue_initial (%d) cannot exceed queue_max (%d)",
			c.Router.QueueInitial, c.Router.QueueMax)
	}

	if c.Store.BatchSize < 1 {
		return errors.New("store.batch_size must be >= 1")
	}
	if c.Store.RecentSize < 1 {
		return errors.New("store.recent_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

// QueueMaxValue translates the config encoding into the router's cap value
// (0 = unbounded).
func (c *GroundstationConfig) QueueMaxValue() int {
	if c.Router.QueueMax == -1 {
		return 0
	}
	return c.Router.QueueMax
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
