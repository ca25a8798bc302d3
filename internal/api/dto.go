package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FolderRequest is the body of list_memos and watch_folder.
type FolderRequest struct {
	FolderPath string `json:"folderPath"`
}

func (r *FolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FolderPath, validation.Required),
	)
}

// MemoRequest is the body of read_memo and delete_memo.
type MemoRequest struct {
	FilePath      string `json:"filePath"`
	WorkingFolder string `json:"workingFolder"`
}

func (r *MemoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FilePath, validation.Required),
		validation.Field(&r.WorkingFolder, validation.Required),
	)
}

// SaveMemoRequest is the body of save_memo. Content may be empty.
type SaveMemoRequest struct {
	FilePath      string `json:"filePath"`
	Content       string `json:"content"`
	WorkingFolder string `json:"workingFolder"`
}

func (r *SaveMemoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FilePath, validation.Required),
		validation.Field(&r.WorkingFolder, validation.Required),
	)
}

// CreateMemoRequest is the body of create_memo. A blank file name picks the default.
type CreateMemoRequest struct {
	FolderPath string `json:"folderPath"`
	FileName   string `json:"fileName"`
}

func (r *CreateMemoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FolderPath, validation.Required),
	)
}

// RenameMemoRequest is the body of rename_memo. NewName is checked by the
// note service so a bad name surfaces as invalid_file_name.
type RenameMemoRequest struct {
	FilePath      string `json:"filePath"`
	NewName       string `json:"newName"`
	WorkingFolder string `json:"workingFolder"`
}

func (r *RenameMemoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FilePath, validation.Required),
		validation.Field(&r.WorkingFolder, validation.Required),
	)
}

// InstallFontRequest is the body of install_font.
type InstallFontRequest struct {
	FontFilePath string `json:"fontFilePath"`
	Label        string `json:"label"`
}

func (r *InstallFontRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FontFilePath, validation.Required),
	)
}

// FontRequest identifies an installed font.
type FontRequest struct {
	FontID string `json:"fontId"`
	Format string `json:"format"`
}

func (r *FontRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FontID, validation.Required),
		validation.Field(&r.Format, validation.Required),
	)
}
