package tgCallback

// Unique ids of inline buttons
const (
	ShowSummary    string = "show_summary"
	ShowHoldings   string = "show_holdings"
	ShowAllocation string = "show_allocation"
	ShowHistory    string = "show_history"
	GenerateReport string = "generate_report"
	SaveSnapshot   string = "save_snapshot"

	CancelImport  string = "cancel_import"  // выйти из ожидания csv файла
	ConfirmDelete string = "confirm_delete" // data: id позиции
	CancelDelete  string = "cancel_delete"

	HoldingsPage string = "holdings_page" // data: страница
	HistoryPage  string = "history_page"  // data: дни|страница
)
