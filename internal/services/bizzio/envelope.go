package bizzio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/xelth-com/bizziosync/internal/config"
)

const (
	nsSoapEnv  = "http://schemas.xmlsoap.org/soap/envelope/"
	nsTempuri  = "http://tempuri.org/"
	nsRiznShop = "http://schemas.datacontract.org/2004/07/Bizzio.Srv.Extensions.RiznShop"
	nsArrays   = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"
	nsXSI      = "http://www.w3.org/2001/XMLSchema-instance"
)

var envelopeTemplate = template.Must(template.New("envelope").Funcs(template.FuncMap{
	"x":    xmlEscape,
	"bool": func(b bool) string { return fmt.Sprintf("%t", b) },
}).Parse(`<soapenv:Envelope xmlns:soapenv="` + nsSoapEnv + `" xmlns:tem="` + nsTempuri + `" xmlns:biz="` + nsRiznShop + `" xmlns:arr="` + nsArrays + `">
	<soapenv:Header>
		<tem:Authentication>
			<biz:Database>{{x .Auth.Database}}</biz:Database>
			<biz:Username>{{x .Auth.Username}}</biz:Username>
			<biz:Password>{{x .Auth.Password}}</biz:Password>
		</tem:Authentication>
	</soapenv:Header>
	<soapenv:Body>
{{- if .Articles}}
		<tem:GetArticlesRequest>
			<tem:AvailableOnly>{{bool .Articles.AvailableOnly}}</tem:AvailableOnly>
			<tem:Barcodes xsi:nil="true" xmlns:xsi="` + nsXSI + `"/>
			<tem:Currency xsi:nil="true" xmlns:xsi="` + nsXSI + `"/>
			<tem:ID_Site>{{x .SiteID}}</tem:ID_Site>
			<tem:IsCars>{{bool .Articles.IsCars}}</tem:IsCars>
			<tem:IsFiles>{{bool .Articles.IsFiles}}</tem:IsFiles>
			<tem:IsQtyByWarehouses>{{bool .Articles.IsQtyByWarehouses}}</tem:IsQtyByWarehouses>
		</tem:GetArticlesRequest>
{{- else}}
		<tem:GetSiteGroupsRequest>
			<tem:ID_Site>{{x .SiteID}}</tem:ID_Site>
			<tem:IsFiles>{{bool .WithFiles}}</tem:IsFiles>
		</tem:GetSiteGroupsRequest>
{{- end}}
	</soapenv:Body>
</soapenv:Envelope>`))

type envelopeData struct {
	Auth      config.BizzioConfig
	SiteID    string
	Articles  *ArticleOptions
	WithFiles bool
}

// buildArticlesRequest renders the GetArticles envelope
func buildArticlesRequest(cfg config.BizzioConfig, opts ArticleOptions) ([]byte, error) {
	return render(envelopeData{Auth: cfg, SiteID: cfg.SiteID, Articles: &opts})
}

// buildSiteGroupsRequest renders the GetSiteGroups envelope
func buildSiteGroupsRequest(cfg config.BizzioConfig, withFiles bool) ([]byte, error) {
	return render(envelopeData{Auth: cfg, SiteID: cfg.SiteID, WithFiles: withFiles})
}

func render(data envelopeData) ([]byte, error) {
	var buf bytes.Buffer
	if err := envelopeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render envelope: %w", err)
	}
	return buf.Bytes(), nil
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
