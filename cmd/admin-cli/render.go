package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	statusStyles = map[domain.OrderStatus]lipgloss.Style{
		domain.OrderStatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.OrderStatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		domain.OrderStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func renderStatus(status domain.OrderStatus) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status.Display())
	}
	return string(status)
}

func renderOrderLine(order domain.Order) string {
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		headerStyle.Render(order.OrderNumber),
		renderStatus(order.Status),
		order.CreationDate.Format("2006-01-02 15:04"),
		fmt.Sprintf("%d шт.", order.TotalProductsCount),
		titleStyle.Render(domain.FormatMinor(order.TotalPriceMinor)),
	)
}

func renderOrder(order domain.Order) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Заказ "+order.OrderNumber) + "\n")
	b.WriteString(dimStyle.Render("id: "+order.ID) + "\n")
	b.WriteString("Статус: " + renderStatus(order.Status) + "\n")
	b.WriteString("Создан: " + order.CreationDate.Format("2006-01-02 15:04:05") + "\n\n")

	if len(order.Items) == 0 {
		b.WriteString(dimStyle.Render("позиции отсутствуют") + "\n")
	}
	for i, item := range order.Items {
		b.WriteString(fmt.Sprintf("%2d. %-24s %3d x %8s = %8s  %s\n",
			i+1,
			item.ProductName,
			item.Quantity,
			domain.FormatMinor(item.UnitPriceMinor),
			domain.FormatMinor(item.TotalMinor()),
			dimStyle.Render(item.ID),
		))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Итого: %s (%d шт.)\n",
		titleStyle.Render(domain.FormatMinor(order.TotalPriceMinor)),
		order.TotalProductsCount,
	))
	return b.String()
}

func renderProductLine(product domain.Product) string {
	return fmt.Sprintf("%-24s %8s  %s",
		product.Name,
		titleStyle.Render(domain.FormatMinor(product.UnitPriceMinor)),
		dimStyle.Render(product.ID),
	)
}
