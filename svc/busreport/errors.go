package busreport

import "errors"

var (
	ErrAPIFactoryRequired = errors.New("busreport: api factory is required")
	ErrMailerRequired     = errors.New("busreport: email sender is required")
	ErrRecipientRequired  = errors.New("busreport: recipient email is required")
	ErrInvalidTimezone    = errors.New("busreport: invalid timezone")

	ErrListBuses  = errors.New("failed to list buses")
	ErrRunReport  = errors.New("failed to run boarding manifest report")
	ErrRender     = errors.New("failed to render report email")
	ErrSendReport = errors.New("failed to send report email")
)
