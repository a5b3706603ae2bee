// Package updater tells the user when a newer ljytool release exists. The
// check result is cached for a day in the config directory; a stale cache is
// refreshed in the background so the check never delays a command.
package updater
