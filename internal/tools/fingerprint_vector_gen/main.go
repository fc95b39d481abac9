// Command fingerprint_vector_gen writes the conformance vectors under
// testdata/conformance/grant-1: canonical JSON bytes and their fingerprints
// for a fixed set of documents.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

type vector struct {
	name string
	doc  application.Document
}

func goldenDocument() application.Document {
	doc := application.New()
	doc.GrantType = application.Builder
	doc.SafeAddress = "0x5aFE000000000000000000000000000000000001"
	doc.RequestAmount = "25000"
	doc.ProjectDetails = "Grant Attestoor records each application & its fingerprint.\nReviewers recompute it."
	doc.ProblemSolving = "Applications change after review."
	doc.EcosystemBenefit = "Verifiable grant history for the DAO."
	doc.ValueProposition = "Tamper-evident applications."
	doc.Differentiation = "Canonical bytes anyone can rebuild."
	doc.TeamExperience = "Contributors from Zürich and São Paulo."
	doc.KYCAgreement = true
	doc.TermsAndConditions = true
	doc.FollowUpReports = true
	doc.SocialMediaLinks = []application.SocialMediaLink{
		{Name: "github", URL: "https://github.com/boilerrat/grant-attestoor"},
		{Name: "x", URL: "https://x.com/boilerrat"},
	}
	doc.TeamMembers = []application.TeamMember{
		{Name: "boilerrat", PrimarySocialMedia: "x", Link: "https://x.com/boilerrat", EthAddressOrENS: "boilerrat.eth"},
	}
	doc.Milestones = []application.Milestone{
		{Summary: "Canonical serializer", Month: "January", Year: "2025", FundingRequired: "10000"},
		{Summary: "Onchain anchoring", Month: "April", Year: "2025", FundingRequired: "15000"},
	}
	doc.PriorFunding = []application.FundingRecord{}
	return doc
}

func vectors() []vector {
	return []vector{
		{name: "new", doc: application.New()},
		{name: "application_1", doc: goldenDocument()},
	}
}

func main() {
	outDir := flag.String("out", "", "Write vector files into this directory instead of printing them")
	flag.Parse()

	for _, v := range vectors() {
		canon, err := canonical.Marshal(v.doc)
		if err != nil {
			panic(err)
		}
		files := map[string][]byte{v.name + ".json": canon}
		for _, alg := range fingerprint.Algorithms() {
			fp, err := fingerprint.Sum(alg, canon)
			if err != nil {
				panic(err)
			}
			files[v.name+"."+string(alg)] = []byte(fp.Hex() + "\n")
		}
		cid, err := fingerprint.Keccak256(canon).CID()
		if err != nil {
			panic(err)
		}
		files[v.name+".cid"] = []byte(cid + "\n")

		if *outDir == "" {
			fmt.Printf("%s KECCAK256=%s CID=%s\n", v.name, fingerprint.Keccak256(canon).Hex(), cid)
			fmt.Printf("---BEGIN---\n%s\n---END---\n", string(canon))
			continue
		}
		for name, b := range files {
			if err := os.WriteFile(filepath.Join(*outDir, name), b, 0o644); err != nil {
				panic(err)
			}
		}
	}
}
