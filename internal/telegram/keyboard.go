package telegram

import "github.com/go-telegram/bot/models"

// Button is one inline button: its label and the callback data it sends.
type Button struct {
	Text string
	Data string
}

// InlineKeyboard lays buttons out perRow to a row.
func InlineKeyboard(perRow int, buttons ...Button) *models.InlineKeyboardMarkup {
	if perRow < 1 {
		perRow = 1
	}
	var rows [][]models.InlineKeyboardButton
	for i := 0; i < len(buttons); i += perRow {
		end := min(i+perRow, len(buttons))
		row := make([]models.InlineKeyboardButton, 0, end-i)
		for _, btn := range buttons[i:end] {
			row = append(row, models.InlineKeyboardButton{Text: btn.Text, CallbackData: btn.Data})
		}
		rows = append(rows, row)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
