// Package mongo connects to MongoDB with the official v2 driver.
//
// New applies pool settings from Config and retries the initial ping with
// exponential backoff. NewWithDatabase returns the configured database handle,
// which is what the token store consumes.
package mongo
