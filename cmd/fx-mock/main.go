package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"
)

type cube struct {
	Time  string `xml:"time,attr,omitempty"`
	Code  string `xml:"currency,attr,omitempty"`
	Rate  string `xml:"rate,attr,omitempty"`
	Cubes []cube `xml:"Cube"`
}

type envelope struct {
	XMLName xml.Name `xml:"gesmes:Envelope"`
	Gesmes  string   `xml:"xmlns:gesmes,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Subject string   `xml:"gesmes:subject"`
	Cube    cube     `xml:"Cube"`
}

var defaultRates = map[string]float64{"USD": 1.0812, "GBP": 0.8571, "JPY": 168.45, "CHF": 0.9783}

func main() {
	var (
		port   = flag.String("port", "9099", "port to listen on")
		data   = flag.String("data", "", "optional JSON file of currency -> units per EUR")
		status = flag.Int("status", http.StatusOK, "status code to answer with, to simulate outages")
		logReq = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	rates := defaultRates
	if *data != "" {
		file, err := os.ReadFile(*data)
		if err != nil {
			log.Fatalf("read mock data: %v", err)
		}
		rates = map[string]float64{}
		if err := json.Unmarshal(file, &rates); err != nil {
			log.Fatalf("parse mock data: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/eurofxref-daily.xml", func(w http.ResponseWriter, r *http.Request) {
		if *logReq {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}
		if *status != http.StatusOK {
			http.Error(w, http.StatusText(*status), *status)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(xml.Header))
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(document(rates, time.Now().UTC())); err != nil {
			log.Printf("encode feed: %v", err)
		}
	})

	addr := ":" + *port
	log.Printf("mock fx feed listening on %s (%d currencies)", addr, len(rates))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func document(rates map[string]float64, now time.Time) envelope {
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	day := cube{Time: now.Format("2006-01-02")}
	for _, code := range codes {
		day.Cubes = append(day.Cubes, cube{Code: code, Rate: strconv.FormatFloat(rates[code], 'f', -1, 64)})
	}
	return envelope{
		Gesmes:  "http://www.gesmes.org/xml/2002-08-01",
		Xmlns:   "http://www.ecb.int/vocabulary/2002-08-01/eurofxref",
		Subject: "Reference rates",
		Cube:    cube{Cubes: []cube{day}},
	}
}
