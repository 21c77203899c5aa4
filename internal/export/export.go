// Package export renders article sets as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"mediawatch/internal/model"
)

// utf8BOM makes Excel open the file as UTF-8 instead of the locale codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"hyperlink",
	"headline",
	"summary",
	"outlet",
	"source",
	"country",
	"company",
	"media_type",
	"date",
	"sentiment",
	"keyword",
	"financial_performance",
	"innovation",
	"regulatory",
	"environment_responsibility",
	"social_responsibility",
	"community_responsibility",
	"e_commerce",
	"amea_leader",
	"amea_executive",
	"local_leaders",
}

// WriteCSV writes articles to w as a UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, articles []model.Article) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range articles {
		if err := cw.Write(record(&articles[i])); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func record(a *model.Article) []string {
	return []string{
		a.Hyperlink,
		a.Headline,
		a.Summary,
		a.Outlet,
		a.Source,
		a.Country,
		a.Company,
		a.MediaType,
		a.Date,
		a.Sentiment,
		a.Keyword,
		flag(a.FinancialPerformance),
		flag(a.Innovation),
		flag(a.Regulatory),
		flag(a.EnvironmentResponsibility),
		flag(a.SocialResponsibility),
		flag(a.CommunityResponsibility),
		flag(a.ECommerce),
		a.AMEALeader,
		a.AMEAExecutive,
		a.LocalLeaders,
	}
}

func flag(f model.Flag) string {
	return strconv.FormatBool(bool(f))
}
