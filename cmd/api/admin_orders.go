package main

import (
	"fmt"
	"net/http"
	"time"

	"eventra/internal/domain/orders"

	"github.com/xuri/excelize/v2"
)

// exportOrdersHandler godoc
//
//	@Summary		Exports all orders as an .xlsx workbook
//	@Tags			admin
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			status	query	string	false	"pending | confirmed | fulfilled | cancelled"
//	@Success		200
//	@Failure		400	{object}	error
//	@Router			/admin/orders/export [get]
func (app *application) exportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	filter := orders.Filter{Limit: 10000}
	if s := r.URL.Query().Get("status"); s != "" {
		status := orders.Status(s)
		if !status.Valid() {
			app.badRequestResponse(w, r, orders.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}

	list, _, err := app.store.Orders.ListAll(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	xl := excelize.NewFile()
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	headers := []string{"Order Number", "Vendor ID", "Customer ID", "Item ID", "Quantity", "Total (cents)", "Status", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		xl.SetCellValue(sheet, cell, h)
	}

	for row, o := range list {
		values := []any{
			o.OrderNumber,
			o.VendorID.String(),
			o.CustomerID.String(),
			o.ItemID.String(),
			o.Quantity,
			o.TotalCents,
			string(o.Status),
			o.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			xl.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := xl.Write(w); err != nil {
		app.logger.Errorw("write orders export", "error", err)
	}
}
