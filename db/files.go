package db

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

func (db *DB) createFilesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS files (
		file_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		money_location_id TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		mime_type TEXT NOT NULL,
		file_data BLOB NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create files table: %w", err)
	}

	return nil
}

// SaveFile stores a file attachment, compressing its contents
func (db *DB) SaveFile(file *models.FileAttachment) error {
	compressed, err := compress(file.Data)
	if err != nil {
		return fmt.Errorf("failed to compress file data: %w", err)
	}

	query := `
	INSERT INTO files (
		file_id, user_id, money_location_id, original_name, file_name,
		file_size, mime_type, file_data, uploaded_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		file.FileID,
		file.UserID,
		file.MoneyLocationID,
		file.OriginalName,
		file.FileName,
		file.Size,
		file.MimeType,
		compressed,
		file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// GetFile retrieves a file attachment with its decompressed contents,
// or nil if none exists for the user
func (db *DB) GetFile(userID, fileID string) (*models.FileAttachment, error) {
	query := `
	SELECT file_id, user_id, money_location_id, original_name, file_name,
		file_size, mime_type, file_data, uploaded_at
	FROM files WHERE file_id = ? AND user_id = ?
	`

	var (
		file       models.FileAttachment
		compressed []byte
	)
	err := db.QueryRow(query, fileID, userID).Scan(
		&file.FileID,
		&file.UserID,
		&file.MoneyLocationID,
		&file.OriginalName,
		&file.FileName,
		&file.Size,
		&file.MimeType,
		&compressed,
		&file.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	file.Data, err = decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress file data: %w", err)
	}

	return &file, nil
}

// GetFiles retrieves file metadata for a money location, without contents
func (db *DB) GetFiles(userID, moneyLocationID string) ([]models.FileAttachment, error) {
	query := `
	SELECT file_id, user_id, money_location_id, original_name, file_name,
		file_size, mime_type, uploaded_at
	FROM files WHERE user_id = ? AND money_location_id = ? ORDER BY uploaded_at
	`

	rows, err := db.Query(query, userID, moneyLocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []models.FileAttachment
	for rows.Next() {
		var file models.FileAttachment
		err := rows.Scan(
			&file.FileID,
			&file.UserID,
			&file.MoneyLocationID,
			&file.OriginalName,
			&file.FileName,
			&file.Size,
			&file.MimeType,
			&file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

// RenameFile updates the display name of a file attachment
func (db *DB) RenameFile(userID, fileID, newName string) error {
	result, err := db.Exec(`UPDATE files SET file_name = ? WHERE file_id = ? AND user_id = ?`, newName, fileID, userID)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no file found with id: %s", fileID)
	}

	return nil
}

// RemoveFile deletes a file attachment
func (db *DB) RemoveFile(userID, fileID string) error {
	result, err := db.Exec(`DELETE FROM files WHERE file_id = ? AND user_id = ?`, fileID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no file found with id: %s", fileID)
	}

	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
