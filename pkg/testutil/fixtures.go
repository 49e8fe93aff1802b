package testutil

// Bank statement CSV fixtures shared by parser, use case and handler tests.
const (
	// SalariedStatementCSV uses canonical columns: two salary credits, a
	// bounce and a gambling debit.
	SalariedStatementCSV = `Date,Narration,Amount,Type,ClosingBalance
2024-01-01,ACH CR: SALARY TRANSFER ACME,50000,CR,50000
2024-01-05,UPI-SWIGGY-XYZ,1200,DR,48800
2024-01-10,CHQ BOUNCE CHARGES,500,DR,48300
2024-01-15,UPI-DREAM11-GAMING,2000,DR,46300
2024-02-01,ACH CR: SALARY TRANSFER ACME,50000,CR,96300
`

	// WithdrawalDepositStatementCSV uses split withdrawal/deposit columns
	// the way most Indian bank exports do.
	WithdrawalDepositStatementCSV = `Txn_Date,Description,Chq/Ref.No.,WithdrawalAmt,DepositAmt,ClosingBalance
01/03/2024,NEFT SALARY CREDIT,REF1,0,45000,45000
05/03/2024,RUMMY CIRCLE,REF2,1500,0,43500
`

	// MissingColumnsCSV has no amount column of any kind.
	MissingColumnsCSV = `Date,Narration
2024-01-01,SALARY
`
)
