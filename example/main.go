package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ooyeku/csvstream/pkg/dsv"
	"github.com/ooyeku/csvstream/pkg/table"
)

func main() {
	file, err := os.Open("data/employees.csv")
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Fatalf("Error closing file: %v", err)
		}
	}(file)

	tbl, err := table.ReadTable(file, dsv.DefaultConfig())
	if err != nil {
		log.Fatalf("Error reading table: %v", err)
	}

	mainFormat := table.FormatOptions{
		Style:          table.RoundedStyle,
		HeaderStyle:    table.Bold,
		HeaderColor:    table.Cyan,
		BorderColor:    table.Blue,
		AlternateRows:  true,
		AlternateColor: table.Dim,
		NumberedRows:   true,
		MaxColumnWidth: 20,
		WrapText:       true,
		Alignment:      []string{"right", "left", "right", "left", "right", "left", "center"},
	}

	statsFormat := table.FormatOptions{
		Style:          table.FancyStyle,
		HeaderStyle:    table.Bold + table.Underline,
		HeaderColor:    table.Yellow,
		BorderColor:    table.Green,
		AlternateRows:  true,
		AlternateColor: table.Dim,
		Alignment:      []string{"left", "right", "right", "right"},
	}

	managerFormat := table.FormatOptions{
		Style:          table.DefaultStyle,
		HeaderStyle:    table.Bold,
		HeaderColor:    table.Magenta,
		BorderColor:    table.White,
		MaxColumnWidth: 30,
		Alignment:      []string{"left", "center", "right", "right"},
	}

	fmt.Println("=== Employee Data ===")
	fmt.Println(tbl.Format(mainFormat))

	fmt.Println("\n=== Department Statistics ===")
	deptStats, err := tbl.GroupBy(
		[]string{"department"},
		map[string]string{
			"salary": "avg",
			"age":    "avg",
			"id":     "count",
		},
	)
	if err != nil {
		log.Fatalf("Error calculating department statistics: %v", err)
	}
	fmt.Println(deptStats.Format(statsFormat))

	fmt.Println("\n=== Manager vs Non-Manager Analysis ===")
	managerStats, err := tbl.GroupBy(
		[]string{"department", "is_manager"},
		map[string]string{
			"salary": "avg",
			"id":     "count",
		},
	)
	if err != nil {
		log.Fatalf("Error calculating manager statistics: %v", err)
	}
	fmt.Println(managerStats.Format(managerFormat))

	fmt.Println("\n=== Experience Analysis ===")
	experienceTable := analyzeExperience(tbl)
	experienceFormat := table.FormatOptions{
		Style:          table.RoundedStyle,
		HeaderStyle:    table.Bold,
		HeaderColor:    table.BgBlue + table.White,
		BorderColor:    table.Cyan,
		AlternateRows:  false,
		MaxColumnWidth: 25,
		Alignment:      []string{"left", "right", "right", "right"},
	}
	fmt.Println(experienceTable.Format(experienceFormat))

	fmt.Println("\n=== Age Distribution ===")
	ageGroups := createAgeGroups(tbl)
	ageFormat := table.FormatOptions{
		Style:          table.RoundedStyle,
		HeaderStyle:    table.Bold,
		HeaderColor:    table.BgGreen + table.Black,
		BorderColor:    table.Green,
		CompactBorders: true,
		Alignment:      []string{"center", "right", "right"},
	}
	fmt.Println(ageGroups.Format(ageFormat))
}

func analyzeExperience(t *table.Table) *table.Table {
	expTable := table.NewTable([]string{"department", "experience_years", "employee_count", "avg_salary"})

	deptMap := make(map[string][]dsv.Record)
	for _, rec := range t.Rows {
		dept, _ := rec.Get("department")
		deptMap[dept] = append(deptMap[dept], rec)
	}

	for dept, rows := range deptMap {
		var totalYears float64
		var totalSalary float64

		for _, rec := range rows {
			joinDateStr, _ := rec.Get("join_date")
			joinDate, _ := time.Parse("2006-01-02", joinDateStr)
			years := time.Since(joinDate).Hours() / (24 * 365)
			salaryStr, _ := rec.Get("salary")
			salary, _ := strconv.ParseFloat(salaryStr, 64)

			totalYears += years
			totalSalary += salary
		}

		avgYears := totalYears / float64(len(rows))
		avgSalary := totalSalary / float64(len(rows))

		err := expTable.AddRow([]string{
			dept,
			fmt.Sprintf("%.1f", avgYears),
			strconv.Itoa(len(rows)),
			fmt.Sprintf("%.2f", avgSalary),
		})
		if err != nil {
			return nil
		}
	}

	return expTable
}

func createAgeGroups(t *table.Table) *table.Table {
	ageTable := table.NewTable([]string{"age_group", "count", "avg_salary"})
	groups := make(map[string][]float64)

	for _, rec := range t.Rows {
		ageStr, _ := rec.Get("age")
		salaryStr, _ := rec.Get("salary")
		age, _ := strconv.Atoi(ageStr)
		salary, _ := strconv.ParseFloat(salaryStr, 64)

		group := getAgeGroup(age)
		groups[group] = append(groups[group], salary)
	}

	for group, salaries := range groups {
		var total float64
		for _, salary := range salaries {
			total += salary
		}
		avg := total / float64(len(salaries))

		err := ageTable.AddRow([]string{
			group,
			strconv.Itoa(len(salaries)),
			fmt.Sprintf("%.2f", avg),
		})
		if err != nil {
			return nil
		}
	}

	return ageTable
}

func getAgeGroup(age int) string {
	switch {
	case age < 30:
		return "20-29"
	case age < 40:
		return "30-39"
	case age < 50:
		return "40-49"
	default:
		return "50+"
	}
}
