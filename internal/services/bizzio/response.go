package bizzio

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Response is the decoded payload of one ERP call
type Response struct {
	Kind       Kind
	Articles   []Article
	Categories []Category
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Articles   *articlesResponse   `xml:"GetArticlesResponse"`
	SiteGroups *siteGroupsResponse `xml:"GetSiteGroupsResponse"`
	Fault      *soapFault          `xml:"Fault"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type resultHeader struct {
	ErrorCode    string `xml:"ErrorCode"`
	ErrorMessage string `xml:"ErrorMessage"`
	ErrorType    string `xml:"ErrorType"`
}

type articlesResponse struct {
	resultHeader
	Articles []xmlArticle `xml:"Articles>AI"`
}

type siteGroupsResponse struct {
	resultHeader
	SiteGroups []xmlSiteGroup `xml:"SiteGroups>SG"`
}

type xmlFile struct {
	ID   string `xml:"ID"`
	Name string `xml:"Name"`
	URI  string `xml:"Uri"`
}

type xmlArticle struct {
	Name         string    `xml:"Name"`
	Barcode      string    `xml:"Barcode"`
	PSale        string    `xml:"P_Sale"`
	Qty          string    `xml:"Qty"`
	Files        []xmlFile `xml:"Files>FI"`
	Props        xmlAny    `xml:"Props"`
	SiteArticles struct {
		Items []struct {
			IDSiteGroup string `xml:"ID_SiteGroup"`
		} `xml:",any"`
	} `xml:"SiteArticles"`
	SiteProps struct {
		Items []struct {
			Val string `xml:"Val"`
		} `xml:",any"`
	} `xml:"SiteProps"`
}

// xmlAny collects the direct text of every child element
type xmlAny struct {
	Items []struct {
		Text string `xml:",chardata"`
	} `xml:",any"`
}

type xmlSiteGroup struct {
	ID       string    `xml:"ID"`
	IDParent string    `xml:"ID_Parent"`
	Name     string    `xml:"Name"`
	Note     string    `xml:"Note"`
	Files    []xmlFile `xml:"Files>FI"`
}

// Decode parses a raw SOAP response for the given kind
func Decode(kind Kind, raw []byte) (*Response, error) {
	var env soapEnvelope
	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, &ParseError{Kind: kind, Err: err}
	}

	switch kind {
	case KindProducts:
		return decodeArticles(&env, raw)
	case KindCategories:
		return decodeSiteGroups(kind, &env, raw)
	case KindConnectionTest:
		resp, err := decodeSiteGroups(kind, &env, raw)
		if err != nil {
			return nil, err
		}
		resp.Categories = nil
		return resp, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func decodeArticles(env *soapEnvelope, raw []byte) (*Response, error) {
	el := env.Body.Articles
	if el == nil {
		return nil, missingElement(KindProducts, env, raw)
	}
	if err := checkResult(KindProducts, el.resultHeader, raw); err != nil {
		return nil, err
	}

	resp := &Response{Kind: KindProducts, Articles: make([]Article, 0, len(el.Articles))}
	for _, a := range el.Articles {
		resp.Articles = append(resp.Articles, a.toArticle())
	}
	return resp, nil
}

func decodeSiteGroups(kind Kind, env *soapEnvelope, raw []byte) (*Response, error) {
	el := env.Body.SiteGroups
	if el == nil {
		return nil, missingElement(kind, env, raw)
	}
	if err := checkResult(kind, el.resultHeader, raw); err != nil {
		return nil, err
	}

	resp := &Response{Kind: kind, Categories: make([]Category, 0, len(el.SiteGroups))}
	for _, sg := range el.SiteGroups {
		resp.Categories = append(resp.Categories, sg.toCategory())
	}
	return resp, nil
}

func missingElement(kind Kind, env *soapEnvelope, raw []byte) error {
	if f := env.Body.Fault; f != nil {
		return &APIError{Kind: kind, Code: f.Code, Type: "Fault", Message: f.String, Raw: string(raw)}
	}
	return &ParseError{Kind: kind, Err: errors.New("invalid response element " + kind.Operation() + "Response")}
}

func checkResult(kind Kind, h resultHeader, raw []byte) error {
	code := strings.TrimSpace(h.ErrorCode)
	typ := strings.TrimSpace(h.ErrorType)
	if code == "0" && typ == "Success" {
		return nil
	}
	return &APIError{
		Kind:    kind,
		Code:    code,
		Type:    typ,
		Message: strings.TrimSpace(h.ErrorMessage),
		Raw:     string(raw),
	}
}

func (a xmlArticle) toArticle() Article {
	out := Article{
		Name:      strings.TrimSpace(a.Name),
		Barcode:   strings.TrimSpace(a.Barcode),
		SalePrice: parseFloat(a.PSale),
		Quantity:  parseInt(a.Qty),
	}

	for _, f := range a.Files {
		img := Image{ID: strings.TrimSpace(f.ID), Name: strings.TrimSpace(f.Name), URI: strings.TrimSpace(f.URI)}
		if img.Allowed() {
			out.Images = append(out.Images, img)
		}
	}

	for _, p := range a.Props.Items {
		if strings.Contains(p.Text, "<p>") {
			out.Description = p.Text
			break
		}
	}

	for _, sa := range a.SiteArticles.Items {
		if ref := strings.TrimSpace(sa.IDSiteGroup); ref != "" {
			out.CategoryRefs = append(out.CategoryRefs, ref)
		}
	}

	for _, sp := range a.SiteProps.Items {
		val := strings.TrimSpace(sp.Val)
		if strings.HasPrefix(val, "http") {
			out.ExternalURLs = append(out.ExternalURLs, val)
		}
	}

	return out
}

func (sg xmlSiteGroup) toCategory() Category {
	c := Category{
		ID:       strings.TrimSpace(sg.ID),
		ParentID: strings.TrimSpace(sg.IDParent),
		Name:     strings.TrimSpace(sg.Name),
		Note:     sg.Note,
	}
	if len(sg.Files) > 0 && strings.TrimSpace(sg.Files[0].URI) != "" {
		f := sg.Files[0]
		c.Image = &Image{ID: strings.TrimSpace(f.ID), Name: strings.TrimSpace(f.Name), URI: strings.TrimSpace(f.URI)}
	}
	return c
}

// parseFloat is lenient: unparsable prices become 0
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseInt truncates fractional quantities ("3.000" is 3)
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(parseFloat(s))
}
