package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/carbocation/popgen"
	"github.com/carbocation/popgen/genemapper"
	"github.com/carbocation/popgen/permtest"
)

func main() {
	path := flag.String("export", "", "GeneMapper export to describe (local, gs://, .gz or .zst)")
	storePath := flag.String("store", "", "Optional SQLite file of recorded permutation runs")
	independent := flag.Bool("independent-alleles", false, "Treat each allele column as its own haploid locus")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No export file given")
	}

	if strings.HasPrefix(*path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*path = filepath.Join(usr.HomeDir, (*path)[2:])
	}

	log.Println("Opening export:", *path)
	ds, err := genemapper.ReadPath(context.Background(), *path, genemapper.Options{IndependentAlleles: *independent})
	if err != nil {
		log.Fatalln(err)
	}

	describeLoci(ds)
	describeGroups(ds)

	if *storePath == "" {
		return
	}

	st, err := permtest.OpenStore(*storePath)
	if err != nil {
		log.Fatalln(err)
	}
	defer st.Close()

	rows, err := st.DB.Queryx("SELECT * FROM runs ORDER BY created_at ASC")
	if err != nil {
		log.Fatalln(err)
	}
	defer rows.Close()
	i := 0
	var row permtest.RunRecord
	for rows.Next() {
		if err := rows.StructScan(&row); err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%d) %+v\n", i, row)
		i++
	}
	log.Println("Saw", i, "recorded runs")
}

func describeLoci(ds *popgen.DataSet) {
	n, err := ds.NumberOfLoci()
	if err != nil {
		log.Fatalln(err)
	}

	for i := 0; i < n; i++ {
		l, err := ds.LocusInfoAtPosition(i)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("locus %d) %s ploidy=%d alleles=%d %v\n", i, l.Name(), l.Ploidy(), l.NumberOfAlleles(), l.AlleleIDs())
	}
	log.Println("Saw", n, "loci")
}

func describeGroups(ds *popgen.DataSet) {
	for gp := 0; gp < ds.NumberOfGroups(); gp++ {
		g, err := ds.GroupAtPosition(gp)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("group %d) id=%d name=%s individuals=%d\n", gp, g.ID(), g.Name(), g.NumberOfIndividuals())

		for ip := 0; ip < g.NumberOfIndividuals(); ip++ {
			if ip > 10 {
				break
			}
			ind, err := g.IndividualAtPosition(ip)
			if err != nil {
				log.Fatalln(err)
			}
			mg, err := ind.Genotype()
			if err != nil {
				log.Printf("\t%s) %s\n", ind.ID(), "has no genotype")
				continue
			}
			log.Printf("\t%s) %s (%d/%d loci called)\n", ind.ID(), mg, mg.NumberOfNonMissing(), mg.NumberOfLoci())
		}
	}
}
