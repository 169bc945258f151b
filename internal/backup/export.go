package backup

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExportEncrypted writes the full log to path as an encrypted file.
func (l *Log) ExportEncrypted(path, passphrase string) error {
	data, err := json.Marshal(l.All())
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return err
	}
	sealed, err := Encrypt(data, passphrase, salt)
	if err != nil {
		return fmt.Errorf("encrypt snapshots: %w", err)
	}

	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportEncrypted replaces the log contents with the snapshots from an
// encrypted export file.
func (l *Log) ImportEncrypted(path, passphrase string) (int, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read export: %w", err)
	}

	data, err := Decrypt(sealed, passphrase)
	if err != nil {
		return 0, err
	}

	var entries []StateSnapshot
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("unmarshal snapshots: %w", err)
	}

	if len(entries) > len(l.buf) {
		entries = entries[len(entries)-len(l.buf):]
	}
	l.head = 0
	l.count = copy(l.buf, entries)
	l.persist()
	return l.count, nil
}
